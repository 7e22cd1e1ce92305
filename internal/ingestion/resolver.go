package ingestion

import "github.com/google/uuid"

// Pre-sizing hint only; the map grows past it without limit.
const initialNPDMapCapacity = 10000

// IdentityResolver assigns a stable NPD id per drug description for the
// lifetime of one run. NDCs sharing a description resolve to the same id,
// so the same drug sold under different NDCs groups under one entity.
type IdentityResolver struct {
	npdByDescription map[string]string
}

func NewIdentityResolver() *IdentityResolver {
	return &IdentityResolver{
		npdByDescription: make(map[string]string, initialNPDMapCapacity),
	}
}

// Resolve returns the NPD id for a description, generating one the first
// time the description is seen. The description must already be normalized.
func (r *IdentityResolver) Resolve(description string) string {
	if id, ok := r.npdByDescription[description]; ok {
		return id
	}

	id := uuid.NewString()
	r.npdByDescription[description] = id
	return id
}
