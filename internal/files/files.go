package files

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// DefaultKeyPattern locates the starter code of a challenge; {id} is
// replaced with the challenge id.
const DefaultKeyPattern = "challenges/{id}/starter.py"

// maxStarterSize bounds starter code read from storage.
const maxStarterSize = 1 << 20

// KeyFor expands pattern for a challenge.
func KeyFor(pattern string, challengeId int64) string {
	return strings.ReplaceAll(pattern, "{id}", strconv.FormatInt(challengeId, 10))
}

type FileStorage struct {
	cl         *minio.Client
	Bucket     string
	KeyPattern string
}

type Config struct {
	Url        string
	Login      string
	Password   string
	Bucket     string
	Secure     bool
	KeyPattern string
}

func NewFileStorage(cfg Config) (*FileStorage, error) {
	client, err := minio.New(cfg.Url, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Login, cfg.Password, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create minio client")
	}
	pattern := cfg.KeyPattern
	if pattern == "" {
		pattern = DefaultKeyPattern
	}
	return &FileStorage{cl: client, Bucket: cfg.Bucket, KeyPattern: pattern}, nil
}

func (s *FileStorage) GetFile(ctx context.Context, filename string) (io.ReadCloser, error) {
	file, err := s.cl.GetObject(ctx, s.Bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	return file, nil
}

// StarterCode reads the starter object of a challenge. A missing object
// yields empty code.
func (s *FileStorage) StarterCode(ctx context.Context, challengeId int64) (string, error) {
	key := KeyFor(s.KeyPattern, challengeId)
	file, err := s.GetFile(ctx, key)
	if err != nil {
		return "", errors.Wrapf(err, "failed to get %s", key)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxStarterSize))
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return "", nil
		}
		return "", errors.Wrapf(err, "failed to read %s", key)
	}
	return string(data), nil
}

// DirStarter reads starter code from a local directory laid out like the
// bucket.
type DirStarter struct {
	Dir        string
	KeyPattern string
}

func (d DirStarter) StarterCode(_ context.Context, challengeId int64) (string, error) {
	pattern := d.KeyPattern
	if pattern == "" {
		pattern = DefaultKeyPattern
	}
	path := filepath.Join(d.Dir, filepath.FromSlash(KeyFor(pattern, challengeId)))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.Wrap(err, "failed to read starter code")
	}
	return string(data), nil
}
