package gdocs

import (
	"bytes"
	"context"
	"crypto/rsa"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Scopes cover document read/write plus management of drive files the
// service account created (template copies).
const tokenScopes = "https://www.googleapis.com/auth/documents https://www.googleapis.com/auth/drive.file"

const jwtBearerGrantType = "urn:ietf:params:oauth:grant-type:jwt-bearer"

// The provider issues 60-minute tokens; caching for 55 keeps a token from
// expiring mid-generation.
const tokenCacheTTL = 55 * time.Minute

const assertionLifetime = time.Hour

type Client struct {
	creds      Credentials
	signingKey *rsa.PrivateKey
	httpClient *http.Client

	docsBaseURL  string
	driveBaseURL string
	tokenURL     string

	// Token cache. The mutex is held across a refresh so concurrent
	// callers wait for the in-flight exchange instead of racing their own.
	mu          sync.Mutex
	token       string
	tokenExpiry time.Time

	now func() time.Time
}

// New builds a client from raw service-account JSON. The credential is
// schema-validated up front; a nil httpClient gets a sane default.
func New(ctx context.Context, credentialJSON []byte, httpClient *http.Client) (*Client, error) {
	creds, key, err := ParseCredentials(ctx, credentialJSON)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		creds:        creds,
		signingKey:   key,
		httpClient:   httpClient,
		docsBaseURL:  "https://docs.googleapis.com",
		driveBaseURL: "https://www.googleapis.com",
		tokenURL:     creds.TokenURI,
		now:          time.Now,
	}, nil
}

// AccessToken returns the cached bearer token when still inside the cache
// window, otherwise performs one JWT-bearer exchange and caches the result.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Before(c.tokenExpiry) {
		return c.token, nil
	}

	token, err := c.exchangeToken(ctx)
	if err != nil {
		// A failed exchange leaves any previously cached value untouched.
		return "", err
	}
	c.token = token
	c.tokenExpiry = c.now().Add(tokenCacheTTL)
	return token, nil
}

func (c *Client) exchangeToken(ctx context.Context) (string, error) {
	issuedAt := c.now()
	claims := jwt.MapClaims{
		"iss":   c.creds.ClientEmail,
		"scope": tokenScopes,
		"aud":   c.tokenURL,
		"iat":   issuedAt.Unix(),
		"exp":   issuedAt.Add(assertionLifetime).Unix(),
	}
	assertion, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(c.signingKey)
	if err != nil {
		return "", &AuthError{Reason: "signing token assertion failed", Err: err}
	}

	form := url.Values{}
	form.Set("grant_type", jwtBearerGrantType)
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", &AuthError{Reason: "building token request failed", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &AuthError{Reason: "token exchange failed", Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &AuthError{Reason: fmt.Sprintf("token endpoint rejected the assertion: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))}
	}

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.AccessToken == "" {
		return "", &AuthError{Reason: "token endpoint returned no access token", Err: err}
	}
	return payload.AccessToken, nil
}

// CopyDocument creates a working copy of a template document so that
// substitutions never touch the source.
func (c *Client) CopyDocument(ctx context.Context, sourceID, newTitle string) (string, error) {
	endpoint := fmt.Sprintf("%s/drive/v3/files/%s/copy", c.driveBaseURL, url.PathEscape(sourceID))
	body, err := c.doJSON(ctx, "copy", http.MethodPost, endpoint, map[string]string{"name": newTitle})
	if err != nil {
		return "", err
	}

	var copied struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &copied); err != nil || copied.ID == "" {
		return "", &ProviderError{Op: "copy", Status: http.StatusOK, Body: "response missing copied file id"}
	}
	return copied.ID, nil
}

// ReplaceSummary reports the outcome of a batch substitution.
type ReplaceSummary struct {
	Replaced int
	Failed   int
}

// BatchReplaceText issues one case-insensitive find/replace per non-empty
// token. Tokens fail independently: a rejected replacement is logged and
// counted, and only a run where every replacement failed returns an error.
func (c *Client) BatchReplaceText(ctx context.Context, docID string, mapping map[string]string) (ReplaceSummary, error) {
	endpoint := fmt.Sprintf("%s/v1/documents/%s:batchUpdate", c.docsBaseURL, url.PathEscape(docID))

	var summary ReplaceSummary
	for token, value := range mapping {
		if value == "" {
			continue
		}
		payload := map[string]any{
			"requests": []map[string]any{{
				"replaceAllText": map[string]any{
					"containsText": map[string]any{"text": token, "matchCase": false},
					"replaceText":  value,
				},
			}},
		}
		if _, err := c.doJSON(ctx, "replace", http.MethodPost, endpoint, payload); err != nil {
			summary.Failed++
			slog.Warn("placeholder replacement failed", "docId", docID, "token", token, "err", err)
			continue
		}
		summary.Replaced++
	}

	if summary.Failed > 0 && summary.Replaced == 0 {
		return summary, &ProviderError{Op: "replace", Status: 0, Body: fmt.Sprintf("all %d replacements failed", summary.Failed)}
	}
	return summary, nil
}

// ExportPDF requests a PDF rendition of the document.
func (c *Client) ExportPDF(ctx context.Context, docID string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/drive/v3/files/%s/export?mimeType=%s", c.driveBaseURL, url.PathEscape(docID), url.QueryEscape("application/pdf"))
	return c.doRaw(ctx, "export", http.MethodGet, endpoint, nil)
}

// DeleteDocument removes a temporary working copy. Callers treat failures
// as log-only cleanup noise.
func (c *Client) DeleteDocument(ctx context.Context, docID string) error {
	endpoint := fmt.Sprintf("%s/drive/v3/files/%s", c.driveBaseURL, url.PathEscape(docID))
	_, err := c.doRaw(ctx, "delete", http.MethodDelete, endpoint, nil)
	return err
}

// GetDocumentText fetches a document and flattens its paragraph text runs
// into plain text. Used by template management to preview templates.
func (c *Client) GetDocumentText(ctx context.Context, docID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v1/documents/%s", c.docsBaseURL, url.PathEscape(docID))
	body, err := c.doRaw(ctx, "get", http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	var doc struct {
		Body struct {
			Content []struct {
				Paragraph *struct {
					Elements []struct {
						TextRun *struct {
							Content string `json:"content"`
						} `json:"textRun"`
					} `json:"elements"`
				} `json:"paragraph"`
			} `json:"content"`
		} `json:"body"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return "", &ProviderError{Op: "get", Status: http.StatusOK, Body: "document response was not decodable"}
	}

	var sb strings.Builder
	for _, block := range doc.Body.Content {
		if block.Paragraph == nil {
			continue
		}
		for _, element := range block.Paragraph.Elements {
			if element.TextRun != nil {
				sb.WriteString(element.TextRun.Content)
			}
		}
	}
	return sb.String(), nil
}

func (c *Client) doJSON(ctx context.Context, op, method, endpoint string, payload any) ([]byte, error) {
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding %s request: %w", op, err)
	}
	return c.doRaw(ctx, op, method, endpoint, encoded)
}

func (c *Client) doRaw(ctx context.Context, op, method, endpoint string, body []byte) ([]byte, error) {
	token, err := c.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("building %s request: %w", op, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Op: op, Status: 0, Body: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(respBody))}
	}
	return respBody, nil
}
