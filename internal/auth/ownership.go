package auth

import (
	apperrors "github.com/spec-kit/document-service/pkg/util"
)

// AuthorizeMutation allows a mutation only when the caller is the recorded
// owner. Callers must check resource existence first so a probe on a missing
// id always reads NotFound, never Forbidden.
func AuthorizeMutation(resourceOwnerID, callerID string) error {
	if resourceOwnerID != callerID {
		return apperrors.NewForbidden("caller is not the resource owner")
	}
	return nil
}
