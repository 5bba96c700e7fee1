package docsource

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveSource exports a Google Doc as plain text through the Drive API.
type DriveSource struct {
	docID       string
	accessToken string
}

func NewDriveSource(docID, accessToken string) *DriveSource {
	return &DriveSource{docID: docID, accessToken: accessToken}
}

func (s *DriveSource) Fetch(ctx context.Context) (string, error) {
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: s.accessToken})

	svc, err := drive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return "", fmt.Errorf("failed to create drive client: %w", err)
	}

	resp, err := svc.Files.Export(s.docID, "text/plain").Context(ctx).Download()
	if err != nil {
		return "", fmt.Errorf("failed to export document: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read exported document: %w", err)
	}

	return string(body), nil
}
