package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tnqbao/charcoal-cms/entity"
)

func TestIsSlug(t *testing.T) {
	for _, slug := range []string{"coconut-shell-charcoal", "bbq-2024", "a"} {
		assert.True(t, IsSlug(slug), slug)
	}
	for _, slug := range []string{"", "Coconut", "double--dash", "-lead", "trail-", "with space", "ü"} {
		assert.False(t, IsSlug(slug), slug)
	}
}

func TestNormalizePagePath(t *testing.T) {
	cases := map[string]string{
		"/":           "/",
		"/products/":  "/products",
		" /about-us ": "/about-us",
		"//":          "/",
	}
	for in, want := range cases {
		got, err := normalizePagePath(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"products", "/a b", "/x?y=1", "/x#top"} {
		_, err := normalizePagePath(in)
		assertCode(t, err, CodeBadRequest)
	}
}

func TestUniqueIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.Equal(t, []uuid.UUID{a, b}, uniqueIDs([]uuid.UUID{a, uuid.Nil, b, a}))
	assert.Empty(t, uniqueIDs(nil))
}

func TestKindPolicyNormalizeMIME(t *testing.T) {
	policies := DefaultKindPolicies()

	got, err := policies[entity.MediaKindGalleryPhoto].NormalizeMIME("image/webp")
	require.NoError(t, err)
	assert.Equal(t, "image/webp", got)

	_, err = policies[entity.MediaKindOGImage].NormalizeMIME("image/gif")
	assertCode(t, err, CodeBadRequest)

	_, err = policies[entity.MediaKindGalleryPhoto].NormalizeMIME("not a mime")
	assertCode(t, err, CodeBadRequest)

	_, ok := ParseMediaKind("team-photos")
	assert.True(t, ok)
	_, ok = ParseMediaKind("../etc")
	assert.False(t, ok)
}
