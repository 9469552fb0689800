package utils

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

const (
	// Base directory for storing uploaded files
	uploadBaseDir = "uploads"
	// Base URL for serving files
	baseURL = "/uploads"
	// Maximum file size (10MB)
	maxFileSize = 10 * 1024 * 1024
)

var (
	// Allowed image extensions
	allowedImageExts = map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".gif":  true,
		".svg":  true,
		".webp": true,
	}
	// Allowed video extensions
	allowedVideoExts = map[string]bool{
		".mp4":  true,
		".mov":  true,
		".webm": true,
	}

	filenameReg = regexp.MustCompile(`[^a-zA-Z0-9.-]`)
)

// cleanFilename removes any potentially dangerous characters from the filename
func cleanFilename(filename string) string {
	// Remove any path components
	filename = filepath.Base(filename)
	return filenameReg.ReplaceAllString(filename, "")
}

// ValidateFileType checks if the file extension is allowed for the given media type
func ValidateFileType(filename, mediaType string) error {
	ext := strings.ToLower(filepath.Ext(filename))

	switch mediaType {
	case "image":
		if !allowedImageExts[ext] {
			return fmt.Errorf("unsupported image format. Allowed formats: jpg, jpeg, png, gif, svg, webp")
		}
	case "video":
		if !allowedVideoExts[ext] {
			return fmt.Errorf("unsupported video format. Allowed formats: mp4, mov, webm")
		}
	default:
		return fmt.Errorf("invalid media type. Must be 'image' or 'video'")
	}
	return nil
}

// InitializeStorage creates necessary directories for file storage
func InitializeStorage() error {
	dirs := []string{
		uploadBaseDir,
		filepath.Join(uploadBaseDir, "media"),
		filepath.Join(uploadBaseDir, "thumbnails"),
		filepath.Join(uploadBaseDir, "avatars"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}

	return nil
}

// SaveListingMedia stores an uploaded media file under a random name and
// returns the serving URL
func SaveListingMedia(fileData []byte, filename string, mediaType string) (string, error) {
	if len(fileData) > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	cleanName := cleanFilename(filename)
	if err := ValidateFileType(cleanName, mediaType); err != nil {
		return "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(cleanName))
	storedName := uuid.New().String() + ext
	fullPath := filepath.Join(uploadBaseDir, "media", storedName)

	if err := os.WriteFile(fullPath, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return fmt.Sprintf("%s/media/%s", baseURL, storedName), nil
}

// SaveAvatar stores an uploaded profile picture, resized to 256x256,
// and returns the serving URL
func SaveAvatar(file *multipart.FileHeader) (string, error) {
	if file.Size > maxFileSize {
		return "", fmt.Errorf("file too large. Maximum size is %d bytes", maxFileSize)
	}

	cleanName := cleanFilename(file.Filename)
	if err := ValidateFileType(cleanName, "image"); err != nil {
		return "", err
	}

	if err := InitializeStorage(); err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	resized := imaging.Fill(img, 256, 256, imaging.Center, imaging.Lanczos)

	storedName := uuid.New().String() + ".jpg"
	fullPath := filepath.Join(uploadBaseDir, "avatars", storedName)

	if err := imaging.Save(resized, fullPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save avatar: %v", err)
	}

	return fmt.Sprintf("%s/avatars/%s", baseURL, storedName), nil
}

// GenerateImageThumbnail creates a 320px-wide thumbnail for an uploaded
// image and returns its URL
func GenerateImageThumbnail(mediaURL string) (string, error) {
	mediaPath := strings.TrimPrefix(mediaURL, baseURL+"/")
	fullMediaPath := filepath.Join(uploadBaseDir, mediaPath)

	img, err := imaging.Open(fullMediaPath)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %v", err)
	}

	// Resize to max width of 320px while maintaining aspect ratio
	resized := imaging.Resize(img, 320, 0, imaging.Lanczos)

	filename := filepath.Base(mediaPath)
	thumbnailName := strings.TrimSuffix(filename, filepath.Ext(filename)) + ".jpg"
	fullThumbnailPath := filepath.Join(uploadBaseDir, "thumbnails", thumbnailName)

	if err := imaging.Save(resized, fullThumbnailPath, imaging.JPEGQuality(85)); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return fmt.Sprintf("%s/thumbnails/%s", baseURL, thumbnailName), nil
}

// GenerateVideoThumbnail extracts a poster frame for a video and saves it locally
func GenerateVideoThumbnail(videoURL string) (string, error) {
	if err := InitializeStorage(); err != nil {
		return "", err
	}

	videoPath := strings.TrimPrefix(videoURL, baseURL+"/")
	fullVideoPath := filepath.Join(uploadBaseDir, videoPath)

	tempDir := os.TempDir()
	posterPath := filepath.Join(tempDir, uuid.New().String()+".jpg")

	// Grab a single frame one second in
	err := ffmpeg.Input(fullVideoPath).
		Output(posterPath, ffmpeg.KwArgs{"vframes": 1, "ss": "00:00:01"}).
		OverWriteOutput().
		Run()
	if err != nil {
		return "", fmt.Errorf("failed to generate thumbnail: %v", err)
	}
	defer os.Remove(posterPath)

	posterData, err := os.ReadFile(posterPath)
	if err != nil {
		return "", fmt.Errorf("failed to read thumbnail file: %v", err)
	}

	img, err := imaging.Decode(bytes.NewReader(posterData))
	if err != nil {
		return "", fmt.Errorf("failed to decode thumbnail: %v", err)
	}

	// Resize to max width of 320px while maintaining aspect ratio
	resized := imaging.Resize(img, 320, 0, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode thumbnail: %v", err)
	}

	videoFilename := filepath.Base(videoPath)
	thumbnailName := strings.TrimSuffix(videoFilename, filepath.Ext(videoFilename)) + ".jpg"
	fullThumbnailPath := filepath.Join(uploadBaseDir, "thumbnails", thumbnailName)

	if err := os.WriteFile(fullThumbnailPath, buf.Bytes(), 0644); err != nil {
		return "", fmt.Errorf("failed to save thumbnail: %v", err)
	}

	return fmt.Sprintf("%s/thumbnails/%s", baseURL, thumbnailName), nil
}
