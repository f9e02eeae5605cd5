package firebase

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/deeperweave/backend/pkg/logging"
	"google.golang.org/api/option"
)

// App holds the initialized Firebase app, its auth client and the avatar bucket
type App struct {
	FirebaseApp *firebase.App
	AuthClient  *auth.Client
	Storage     *Storage
}

// InitFirebase initializes the Firebase application, authentication client and
// storage bucket. An empty bucketName disables uploads.
func InitFirebase(ctx context.Context, credentialsPath, bucketName string) (*App, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	var appConfig *firebase.Config
	if bucketName != "" {
		appConfig = &firebase.Config{StorageBucket: bucketName}
	}

	firebaseApp, err := firebase.NewApp(ctx, appConfig, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase auth client: %w", err)
	}

	app := &App{FirebaseApp: firebaseApp, AuthClient: authClient}

	if bucketName != "" {
		storageClient, err := firebaseApp.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error getting firebase storage client: %w", err)
		}
		bucket, err := storageClient.DefaultBucket()
		if err != nil {
			return nil, fmt.Errorf("error opening storage bucket %s: %w", bucketName, err)
		}
		app.Storage = &Storage{bucket: bucket, bucketName: bucketName}
	}

	logging.Info().Bool("storage", app.Storage != nil).Msg("Firebase app initialized")
	return app, nil
}

// Storage uploads objects to a Firebase Storage bucket.
type Storage struct {
	bucket     *gcs.BucketHandle
	bucketName string
}

// Upload writes r to path, overwriting any existing object, and returns the
// object's public URL.
func (s *Storage) Upload(ctx context.Context, path, contentType string, r io.Reader) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=300"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("upload %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize %s: %w", path, err)
	}

	return PublicURL(s.bucketName, path), nil
}

// PublicURL builds the download URL of an object in bucket.
func PublicURL(bucket, path string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, (&url.URL{Path: path}).EscapedPath())
}
