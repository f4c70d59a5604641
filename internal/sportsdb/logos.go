package sportsdb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// LogoMirror copies a remote badge to storage we control and returns the new
// URL.
type LogoMirror interface {
	Mirror(ctx context.Context, publicID, sourceURL string) (string, error)
}

type CloudinaryMirror struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryMirror(cld *cloudinary.Cloudinary) *CloudinaryMirror {
	return &CloudinaryMirror{cld: cld, folder: "team-logos"}
}

// Mirror lets Cloudinary fetch sourceURL itself. Re-running overwrites the
// same public id.
func (m *CloudinaryMirror) Mirror(ctx context.Context, publicID, sourceURL string) (string, error) {
	resp, err := m.cld.Upload.Upload(ctx, sourceURL, uploader.UploadParams{
		Folder:    m.folder,
		PublicID:  publicID,
		Overwrite: api.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return "", errors.New("cloudinary upload: empty url")
	}
	return resp.SecureURL, nil
}

func logoPublicID(leagueShort, abbreviation string) string {
	return strings.ToLower(leagueShort + "-" + abbreviation)
}
