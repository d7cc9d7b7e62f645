package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"voxchat/voxchat/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// AudioArchive keeps a copy of audio that passed through the speech bridge.
type AudioArchive interface {
	StoreAudio(ctx context.Context, userID uuid.UUID, kind string, audio []byte, meta map[string]string) (string, error)
}

const (
	KindRecording = "recordings"
	KindSynthesis = "synthesis"
)

type MinIOClient struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

func NewMinIOClient(ctx context.Context, cfg config.Config) (*MinIOClient, error) {
	client, err := minio.New(
		cfg.MinIOEndpoint,
		&minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIOAccessKey, cfg.MinIOSecretKey, ""),
			Secure: cfg.MinIOUseSSL,
		},
	)
	if err != nil {
		return nil, err
	}
	exists, err := client.BucketExists(ctx, cfg.MinIOBucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinIOBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}
	return &MinIOClient{client: client, bucket: cfg.MinIOBucket, now: time.Now}, nil
}

// ObjectKey lays objects out as <kind>/<user>/<yyyy>/<mm>/<dd>/<unixnano>-<rand>.<ext>.
func ObjectKey(userID uuid.UUID, kind string, at time.Time) string {
	ext := "wav"
	if kind == KindSynthesis {
		ext = "mp3"
	}
	at = at.UTC()
	return path.Join(kind, userID.String(), at.Format("2006/01/02"),
		fmt.Sprintf("%d-%s.%s", at.UnixNano(), uuid.NewString()[:8], ext))
}

func contentType(kind string) string {
	if kind == KindSynthesis {
		return "audio/mpeg"
	}
	return "audio/l16; rate=16000"
}

func (m *MinIOClient) StoreAudio(ctx context.Context, userID uuid.UUID, kind string, audio []byte, meta map[string]string) (string, error) {
	key := ObjectKey(userID, kind, m.now())
	_, err := m.client.PutObject(ctx, m.bucket, key, bytes.NewReader(audio), int64(len(audio)), minio.PutObjectOptions{
		ContentType:  contentType(kind),
		UserMetadata: meta,
	})
	if err != nil {
		return "", err
	}
	return key, nil
}
