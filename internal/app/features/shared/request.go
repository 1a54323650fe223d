// internal/app/features/shared/request.go
package shared

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apierrors "github.com/dalemusser/bughub/internal/app/features/errors"
	"github.com/dalemusser/bughub/internal/app/system/inputval"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

// DecodeJSON reads r's body into v and runs its validate tags. Failures
// come back as 400 *apierrors.Error values ready for Respond.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apierrors.BadRequest("request body is required")
		}
		return apierrors.BadRequest("malformed JSON body")
	}
	return Validate(v)
}

// Validate runs v's validate tags and maps the first failure to a 400.
func Validate(v any) error {
	if res := inputval.Validate(v); res.HasErrors() {
		return apierrors.BadRequest(res.First())
	}
	return nil
}

// PathID parses the chi URL parameter name as an ObjectID. A malformed id
// is a 400, reported before any lookup.
func PathID(r *http.Request, name string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apierrors.BadRequest("invalid " + name)
	}
	return oid, nil
}

// ParseID parses a body or query id, naming the field in the 400.
func ParseID(s, field string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, apierrors.BadRequest("invalid " + field)
	}
	return oid, nil
}
