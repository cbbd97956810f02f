package services

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/harentsoaR/hospital-api/internal/apperr"
	"github.com/harentsoaR/hospital-api/internal/models"
	"github.com/harentsoaR/hospital-api/internal/utils"
)

// IdentityResolver maps token claims to a live actor record. It re-reads the
// record on every call so an administrative deactivation takes effect on the
// very next request, despite tokens having no revocation mechanism.
type IdentityResolver struct {
	store actorStore
}

func NewIdentityResolver(db *mongo.Database) *IdentityResolver {
	return &IdentityResolver{store: mongoActorStore{db: db}}
}

// actorDoc is the common slice of every actor collection's documents.
type actorDoc struct {
	ID          primitive.ObjectID   `bson:"_id"`
	Name        string               `bson:"name"`
	Email       string               `bson:"email"`
	Status      models.ActorStatus   `bson:"status"`
	Permissions models.PermissionSet `bson:"permissions"`
}

// Resolve fetches the actor behind the claims and requires it to be active at
// call time, not merely at token issuance. A claims bundle that cannot name a
// collection or a valid object id is treated as an invalid token.
func (r *IdentityResolver) Resolve(ctx context.Context, claims *utils.Claims) (*models.AuthActor, error) {
	kind, ok := models.KindFromModel(claims.Model)
	if !ok {
		return nil, apperr.Authentication("Invalid token")
	}

	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, apperr.Authentication("Invalid token")
	}

	doc, err := r.store.FindActor(ctx, kind, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.Authorization(string(kind) + " not found or inactive")
		}
		return nil, apperr.Internal("failed to resolve actor", err)
	}

	if doc.Status != models.StatusActive {
		return nil, apperr.Authorization(string(kind) + " not found or inactive")
	}

	return &models.AuthActor{
		ID:          doc.ID,
		Name:        doc.Name,
		Email:       doc.Email,
		Kind:        kind,
		Status:      doc.Status,
		Permissions: doc.Permissions,
	}, nil
}
