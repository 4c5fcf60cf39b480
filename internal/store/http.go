package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/zombor/billed/internal/bill"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// StatusError is returned when the store answers with a non-2xx status
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Erreur %d", e.Code)
}

// Options configures an HTTP client
type Options struct {
	// BaseURL of the bill store, e.g. http://localhost:8080
	BaseURL string

	// Email restricts listings to the bills of one employee. Empty lists
	// every bill.
	Email string

	// Basic auth credentials (optional)
	Username string
	Password string

	// HTTPClient defaults to a client without timeout
	HTTPClient *http.Client
}

// Client implements Store over HTTP
type Client struct {
	baseURL  string
	email    string
	username string
	password string
	client   *http.Client
}

// NewClient creates a new HTTP store client
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("store base url is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("parsing store base url: %w", err)
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	return &Client{
		baseURL:  strings.TrimSuffix(opts.BaseURL, "/"),
		email:    opts.Email,
		username: opts.Username,
		password: opts.Password,
		client:   client,
	}, nil
}

// Bills returns the bills resource
func (c *Client) Bills() BillsResource {
	return &httpBills{c: c}
}

type httpBills struct {
	c *Client
}

func (b *httpBills) List(ctx context.Context) ([]bill.Bill, error) {
	path := "/bills"
	if b.c.email != "" {
		path += "?" + url.Values{"email": {b.c.email}}.Encode()
	}
	req, err := b.c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	bills := make([]bill.Bill, 0)
	if err := b.c.do(req, &bills); err != nil {
		return nil, fmt.Errorf("listing bills: %w", err)
	}
	return bills, nil
}

func (b *httpBills) Create(ctx context.Context, in bill.Bill) (*bill.Bill, error) {
	created, err := b.c.sendJSON(ctx, http.MethodPost, "/bills", in)
	if err != nil {
		return nil, fmt.Errorf("creating bill: %w", err)
	}
	return created, nil
}

func (b *httpBills) Update(ctx context.Context, id string, in bill.Bill) (*bill.Bill, error) {
	updated, err := b.c.sendJSON(ctx, http.MethodPatch, "/bills/"+url.PathEscape(id), in)
	if err != nil {
		return nil, fmt.Errorf("updating bill %s: %w", id, err)
	}
	return updated, nil
}

func (b *httpBills) Upload(ctx context.Context, f FileUpload) (*UploadResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(f.Filename)))
	contentType := f.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("creating file part: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return nil, fmt.Errorf("writing file part: %w", err)
	}
	if err := writer.WriteField("email", f.Email); err != nil {
		return nil, fmt.Errorf("writing email field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("closing multipart body: %w", err)
	}

	req, err := b.c.newRequest(ctx, http.MethodPost, "/bills", &body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var result UploadResult
	if err := b.c.do(req, &result); err != nil {
		return nil, fmt.Errorf("uploading receipt %s: %w", f.Filename, err)
	}
	return &result, nil
}

func (c *Client) sendJSON(ctx context.Context, method, path string, in bill.Bill) (*bill.Bill, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshaling bill: %w", err)
	}
	req, err := c.newRequest(ctx, method, path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out bill.Bill
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling bill store: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		var envelope struct {
			Error string `json:"error"`
		}
		message := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &envelope) == nil && envelope.Error != "" {
			message = envelope.Error
		}
		return &StatusError{Code: resp.StatusCode, Message: message}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
