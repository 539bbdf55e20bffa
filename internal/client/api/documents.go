package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/dmitrijs2005/jobtrack/internal/client/models"
)

// Documents is the client for files attached to applications.
type Documents struct {
	baseURL string
	http    *http.Client
}

func NewDocuments(baseURL string, httpClient *http.Client) *Documents {
	return &Documents{baseURL: baseURL, http: httpClient}
}

func (d *Documents) collectionURL(applicationID int64) string {
	return fmt.Sprintf("%s/api/applications/%d/documents", d.baseURL, applicationID)
}

// List returns the documents attached to an application.
func (d *Documents) List(ctx context.Context, applicationID int64) ([]models.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.collectionURL(applicationID), nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("request failed: %s", resp.Status)
	}

	var docs []models.Document
	if err := json.NewDecoder(resp.Body).Decode(&docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// Upload sends a file as the multipart "file" field. The whole payload is
// buffered so the request gate can replay it after a token refresh.
func (d *Documents) Upload(ctx context.Context, applicationID int64, fileName string, content []byte) (*models.Document, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(content); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.collectionURL(applicationID), bytes.NewReader(buf.Bytes()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upload failed: %s", resp.Status)
	}

	var doc models.Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Download fetches a document's content.
func (d *Documents) Download(ctx context.Context, applicationID, documentID int64) ([]byte, error) {
	u := fmt.Sprintf("%s/%d/download", d.collectionURL(applicationID), documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Delete removes a document.
func (d *Documents) Delete(ctx context.Context, applicationID, documentID int64) error {
	u := fmt.Sprintf("%s/%d", d.collectionURL(applicationID), documentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return err
	}
	resp, err := d.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("delete failed: %s", resp.Status)
	}
	return nil
}
