package repository

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
)

// PhotoRepository stores plot image blobs in MongoDB GridFS. It plays the
// media-collaborator role: one upload in, a stable URL and external id out.
type PhotoRepository struct {
	DB *mongo.Database
}

func NewPhotoRepository(client *mongo.Client, dbName string) *PhotoRepository {
	return &PhotoRepository{DB: client.Database(dbName)}
}

// Upload stores one image payload and returns its serving URL together with
// the storage id used for later deletion.
func (r *PhotoRepository) Upload(data []byte, filename, contentType string) (string, string, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}

	opts := &gridfs.UploadOptions{Metadata: bson.M{"contentType": contentType}}
	stream, err := bucket.OpenUploadStream(filename, opts)
	if err != nil {
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}

	if _, err := io.Copy(stream, bytes.NewReader(data)); err != nil {
		stream.Close()
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}
	if err := stream.Close(); err != nil {
		return "", "", fmt.Errorf("PhotoRepository.Upload: %w", err)
	}

	publicID := stream.FileID.(primitive.ObjectID).Hex()
	return "/api/photos/" + publicID, publicID, nil
}

// Download returns the image payload and its content type.
func (r *PhotoRepository) Download(publicID string) ([]byte, string, error) {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.Download: %w", err)
	}

	objID, err := primitive.ObjectIDFromHex(publicID)
	if err != nil {
		return nil, "", ErrNotFound
	}

	stream, err := bucket.OpenDownloadStream(objID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("PhotoRepository.Download: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, "", fmt.Errorf("PhotoRepository.Download: %w", err)
	}

	contentType := "image/jpeg"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		var meta struct {
			ContentType string `bson:"contentType"`
		}
		if err := bson.Unmarshal(file.Metadata, &meta); err == nil && meta.ContentType != "" {
			contentType = meta.ContentType
		}
	}
	return data, contentType, nil
}

// Delete removes a stored image. Used to clean up after a failed submit.
func (r *PhotoRepository) Delete(publicID string) error {
	bucket, err := gridfs.NewBucket(r.DB)
	if err != nil {
		return fmt.Errorf("PhotoRepository.Delete: %w", err)
	}

	objID, err := primitive.ObjectIDFromHex(publicID)
	if err != nil {
		return ErrNotFound
	}
	if err := bucket.Delete(objID); err != nil {
		return fmt.Errorf("PhotoRepository.Delete: %w", err)
	}
	return nil
}
