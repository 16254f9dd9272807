package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hrm-api/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxAvatarDimension is the longest edge an avatar is stored with.
const MaxAvatarDimension = 512

var (
	ErrInvalidFileType = errors.New("invalid file type: only jpg, jpeg, png allowed")
	ErrInvalidImage    = errors.New("file is not a valid image")
)

type FileService interface {
	// UploadAvatar stores an avatar image and returns its public URL.
	UploadAvatar(ctx context.Context, file io.Reader, filename string) (string, error)

	// DeleteByURL removes a file previously returned by UploadAvatar. URLs the
	// storage did not issue are ignored.
	DeleteByURL(ctx context.Context, url string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadAvatar(ctx context.Context, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidFileType
	}

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	encoded, contentType, err := shrinkImage(buffer, ext, MaxAvatarDimension)
	if err != nil {
		return "", err
	}

	path := filepath.ToSlash(filepath.Join("avatars", uuid.New().String()+ext))
	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(encoded), path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return s.storage.GetURL(ctx, uploadedPath)
}

func (s *fileServiceImpl) DeleteByURL(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	path, ok := s.storage.PathFromURL(url)
	if !ok {
		slog.Debug("skipping delete of foreign file url", "url", url)
		return nil
	}
	return s.storage.Delete(ctx, path)
}

// shrinkImage decodes the upload and, when either edge exceeds maxDim,
// scales it down keeping the aspect ratio. Images already small enough are
// stored as uploaded.
func shrinkImage(buffer []byte, ext string, maxDim int) ([]byte, string, error) {
	contentType := "image/jpeg"
	if ext == ".png" {
		contentType = "image/png"
	}

	img, _, err := image.Decode(bytes.NewReader(buffer))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= maxDim && height <= maxDim {
		return buffer, contentType, nil
	}

	newWidth, newHeight := maxDim, maxDim
	if width >= height {
		newHeight = max(1, height*maxDim/width)
	} else {
		newWidth = max(1, width*maxDim/height)
	}
	resized := resizeImage(img, newWidth, newHeight)

	buf := new(bytes.Buffer)
	if contentType == "image/png" {
		err = png.Encode(buf, resized)
	} else {
		err = jpeg.Encode(buf, resized, &jpeg.Options{Quality: 85})
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode resized image: %w", err)
	}
	return buf.Bytes(), contentType, nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
