package esign

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the e-signature provider: it registers a hosted PDF
// and opens a multi-party signature request over it.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type Signer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type SignatureRequest struct {
	RequestID  string `json:"requestId"`
	DocumentID string `json:"documentId"`
}

type createRequestPayload struct {
	Title   string   `json:"title"`
	FileURL string   `json:"file_url"`
	Signers []Signer `json:"signers"`
}

// CreateSignatureRequest uploads the agreement by URL and opens a
// request with the given signers (employee and client representative).
func (c *Client) CreateSignatureRequest(ctx context.Context, title, pdfURL string, signers []Signer) (SignatureRequest, error) {
	if len(signers) == 0 {
		return SignatureRequest{}, fmt.Errorf("signature request needs at least one signer")
	}

	encoded, err := json.Marshal(createRequestPayload{Title: title, FileURL: pdfURL, Signers: signers})
	if err != nil {
		return SignatureRequest{}, fmt.Errorf("encoding signature request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/signature_requests", bytes.NewReader(encoded))
	if err != nil {
		return SignatureRequest{}, fmt.Errorf("building signature request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return SignatureRequest{}, fmt.Errorf("signature provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SignatureRequest{}, fmt.Errorf("signature provider rejected request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var created struct {
		RequestID  string `json:"request_id"`
		DocumentID string `json:"document_id"`
	}
	if err := json.Unmarshal(body, &created); err != nil || created.RequestID == "" {
		return SignatureRequest{}, fmt.Errorf("signature provider returned no request id")
	}
	return SignatureRequest{RequestID: created.RequestID, DocumentID: created.DocumentID}, nil
}
