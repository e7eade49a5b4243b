package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	"github.com/mbcet/alumnimeet/internal/models"
)

const DefaultCollection = "alumniMeetupRegistrations"

// Firestore adds registrations as documents of one collection. Timestamps come
// from the server via the serverTimestamp tags on models.Registration.
type Firestore struct {
	client     *firestore.Client
	collection string
}

// OpenFirestore initializes a Firebase app from a service-account key file and
// returns a store bound to collection. An empty credentialsFile falls back to
// application default credentials, which is also what the emulator uses.
func OpenFirestore(ctx context.Context, credentialsFile, projectID, collection string) (*Firestore, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}
	return &Firestore{client: client, collection: collection}, nil
}

func (f *Firestore) CreateRecord(ctx context.Context, rec models.Registration) (string, error) {
	ref, _, err := f.client.Collection(f.collection).Add(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("error creating registration: %w", err)
	}
	return ref.ID, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}
