package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/otocare/booking-portal/internal/core/domain"
	"github.com/otocare/booking-portal/internal/core/ports"
)

const snapshotCollection = "profile_snapshots"

// snapshotID is the legacy storage key the cached profile lives under.
const snapshotID = "user"

// ProfileCache stores the last authoritative profile as a document.
// Write-only from the portal's point of view: it is upserted after a
// successful fetch and removed on logout, never read back by the core.
type ProfileCache struct {
	coll *mongo.Collection
}

var _ ports.ProfileCache = (*ProfileCache)(nil)

func NewProfileCache(db *mongo.Database) *ProfileCache {
	return &ProfileCache{coll: db.Collection(snapshotCollection)}
}

type profileSnapshot struct {
	ID        string `bson:"_id"`
	UserID    string `bson:"user_id"`
	Username  string `bson:"username"`
	Email     string `bson:"email"`
	Role      string `bson:"role"`
	FullName  string `bson:"full_name"`
	UpdatedAt int64  `bson:"updated_at"`
}

func (c *ProfileCache) Put(ctx context.Context, id domain.Identity) error {
	doc := profileSnapshot{
		ID:        snapshotID,
		UserID:    id.ID,
		Username:  id.Username,
		Email:     id.Email,
		Role:      string(id.Role),
		FullName:  id.FullName,
		UpdatedAt: time.Now().UTC().Unix(),
	}

	_, err := c.coll.ReplaceOne(ctx,
		bson.M{"_id": snapshotID},
		doc,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("put profile snapshot: %w", err)
	}
	return nil
}

func (c *ProfileCache) Remove(ctx context.Context) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": snapshotID}); err != nil {
		return fmt.Errorf("remove profile snapshot: %w", err)
	}
	return nil
}
