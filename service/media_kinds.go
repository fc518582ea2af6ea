package service

import (
	"fmt"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tnqbao/charcoal-cms/entity"
)

// Owner labels for kinds attached to another entity.
const (
	OwnerProduct    = "product"
	OwnerTeamMember = "team member"
	OwnerPage       = "page"
)

type KindPolicy struct {
	Kind         entity.MediaKind
	RequiresName bool
	Owner        string
	allowedMIMEs map[string]struct{}
}

func newKindPolicy(kind entity.MediaKind, requiresName bool, owner string, mimes ...string) KindPolicy {
	allowed := make(map[string]struct{}, len(mimes))
	for _, m := range mimes {
		allowed[m] = struct{}{}
	}
	return KindPolicy{Kind: kind, RequiresName: requiresName, Owner: owner, allowedMIMEs: allowed}
}

var imageMIMEs = []string{"image/jpeg", "image/png", "image/webp", "image/gif", "image/avif"}

func DefaultKindPolicies() map[entity.MediaKind]KindPolicy {
	return map[entity.MediaKind]KindPolicy{
		entity.MediaKindGalleryPhoto:    newKindPolicy(entity.MediaKindGalleryPhoto, true, "", imageMIMEs...),
		entity.MediaKindProductMedia:    newKindPolicy(entity.MediaKindProductMedia, false, OwnerProduct, imageMIMEs...),
		entity.MediaKindPackagingOption: newKindPolicy(entity.MediaKindPackagingOption, false, OwnerProduct, imageMIMEs...),
		entity.MediaKindTeamPhoto:       newKindPolicy(entity.MediaKindTeamPhoto, false, OwnerTeamMember, imageMIMEs...),
		entity.MediaKindOGImage:         newKindPolicy(entity.MediaKindOGImage, false, OwnerPage, "image/jpeg", "image/png", "image/webp"),
	}
}

func ParseMediaKind(raw string) (entity.MediaKind, bool) {
	kind := entity.MediaKind(raw)
	_, ok := DefaultKindPolicies()[kind]
	return kind, ok
}

// NormalizeMIME strips parameters, resolves aliases and checks the kind's allow-list.
func (p KindPolicy) NormalizeMIME(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", BadRequest("mime_type is required")
	}
	mediaType, _, err := mime.ParseMediaType(raw)
	if err != nil {
		return "", BadRequest(fmt.Sprintf("invalid mime_type %q", raw))
	}
	if known := mimetype.Lookup(mediaType); known != nil {
		mediaType = known.String()
	}
	if _, ok := p.allowedMIMEs[mediaType]; !ok {
		return "", BadRequest(fmt.Sprintf("mime_type %q is not allowed for %s", mediaType, p.Kind))
	}
	return mediaType, nil
}
