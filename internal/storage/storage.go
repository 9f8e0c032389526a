package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/rs/zerolog/log"
)

// Storage keeps uploaded timetable workbooks. SaveFile returns the key that
// Open accepts later.
type Storage interface {
	SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error)
	Open(key string) (io.ReadCloser, error)
}

type LocalStorage struct {
	uploadDir string
}

type SpacesStorage struct {
	client *s3.S3
	bucket string
}

func NewLocalStorage(uploadDir string) *LocalStorage {
	return &LocalStorage{uploadDir: uploadDir}
}

func NewSpacesStorage(endpoint, region, bucket, accessKey, secretKey string) (*SpacesStorage, error) {
	config := &aws.Config{
		Credentials:      credentials.NewStaticCredentials(accessKey, secretKey, ""),
		Endpoint:         aws.String(endpoint),
		Region:           aws.String(region),
		S3ForcePathStyle: aws.Bool(false),
	}

	sess, err := session.NewSession(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &SpacesStorage{
		client: s3.New(sess),
		bucket: bucket,
	}, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// normalizeFilename keeps letters, digits, dash and underscore, and stamps the
// upload time so re-uploads of "horaires.xlsx" never overwrite each other.
func normalizeFilename(originalFilename string) string {
	ext := strings.ToLower(filepath.Ext(originalFilename))
	baseName := strings.TrimSuffix(filepath.Base(originalFilename), filepath.Ext(originalFilename))
	baseName = strings.ReplaceAll(baseName, " ", "_")
	baseName = unsafeFilenameChars.ReplaceAllString(baseName, "")
	if baseName == "" {
		baseName = "timetable"
	}

	timestamp := time.Now().Format("20060102_150405")
	return fmt.Sprintf("%s_%s%s", baseName, timestamp, ext)
}

// ReadAll loads a whole stored workbook.
func ReadAll(s Storage, key string) ([]byte, error) {
	rc, err := s.Open(key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (ls *LocalStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	key := normalizeFilename(filename)
	log.Debug().Str("original", filename).Str("normalized", key).Msg("Timetable upload normalized")

	if err := os.MkdirAll(ls.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(ls.path(key))
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}
	return key, nil
}

func (ls *LocalStorage) Open(key string) (io.ReadCloser, error) {
	f, err := os.Open(ls.path(key))
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", key, err)
	}
	return f, nil
}

// keys never leave the upload directory
func (ls *LocalStorage) path(key string) string {
	return filepath.Join(ls.uploadDir, filepath.Clean("/"+key))
}

func (ss *SpacesStorage) SaveFile(fileHeader *multipart.FileHeader, filename string) (string, error) {
	key := "timetables/" + normalizeFilename(filename)

	src, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	_, err = ss.client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(ss.bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(getContentType(key)),
		ACL:         aws.String("private"),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload timetable to Spaces")
		return "", fmt.Errorf("failed to upload to Spaces: %w", err)
	}

	log.Info().Str("bucket", ss.bucket).Str("key", key).Msg("Timetable uploaded to Spaces")
	return key, nil
}

func (ss *SpacesStorage) Open(key string) (io.ReadCloser, error) {
	out, err := ss.client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(ss.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to fetch file from Spaces")
		return nil, fmt.Errorf("failed to fetch %q from Spaces: %w", key, err)
	}
	return out.Body, nil
}

func getContentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xls":
		return "application/vnd.ms-excel"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}
