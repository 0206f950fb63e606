// README: Firebase Admin SDK initialisation; token verifier plus RTDB, FCM and storage clients.
package infra

import (
	"context"
	"fmt"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"firebase.google.com/go/v4/db"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"bazaar/internal/config"
)

// FirebaseToken holds the verified token data used by downstream middleware.
type FirebaseToken struct {
	UID    string
	Claims map[string]interface{}
}

// TokenVerifier verifies a raw Firebase ID token string and returns token data.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error)
}

// Firebase bundles the admin-SDK clients the service depends on. Identity,
// the live status mirror, push delivery and image hosting are all external
// collaborators reached through this one app.
type Firebase struct {
	app        *firebase.App
	auth       *auth.Client
	rtdb       *db.Client
	messaging  *messaging.Client
	bucket     *gcs.BucketHandle
	bucketName string
}

// NewFirebase initialises the Admin SDK from the service-account credentials.
// If cfg.CredentialsFile is empty, application-default credentials are used.
func NewFirebase(ctx context.Context, cfg config.FirebaseConfig) (*Firebase, error) {
	opts := []option.ClientOption{}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		DatabaseURL:   cfg.DatabaseURL,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}

	f := &Firebase{app: app, auth: authClient, bucketName: cfg.StorageBucket}

	if cfg.DatabaseURL != "" {
		rtdb, err := app.Database(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase app.Database: %w", err)
		}
		f.rtdb = rtdb
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Messaging: %w", err)
	}
	f.messaging = msgClient

	if cfg.StorageBucket != "" {
		storageClient, err := app.Storage(ctx)
		if err != nil {
			return nil, fmt.Errorf("firebase app.Storage: %w", err)
		}
		bucket, err := storageClient.Bucket(cfg.StorageBucket)
		if err != nil {
			return nil, fmt.Errorf("firebase storage bucket: %w", err)
		}
		f.bucket = bucket
	}

	return f, nil
}

func (f *Firebase) VerifyIDToken(ctx context.Context, idToken string) (*FirebaseToken, error) {
	token, err := f.auth.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	return &FirebaseToken{UID: token.UID, Claims: token.Claims}, nil
}

// RTDB returns the realtime-database client, nil when no database URL is configured.
func (f *Firebase) RTDB() *db.Client { return f.rtdb }

func (f *Firebase) Messaging() *messaging.Client { return f.messaging }

// Bucket returns the storage bucket handle, nil when no bucket is configured.
func (f *Firebase) Bucket() *gcs.BucketHandle { return f.bucket }

func (f *Firebase) BucketName() string { return f.bucketName }
