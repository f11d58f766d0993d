package gdrive

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const (
	findPageSize = 10
	listPageSize = 100
)

// maxReadBytes caps a single artifact download.
var maxReadBytes int64 = 10 << 20

// Client is the Drive v3 implementation of Store.
type Client struct {
	files        *drive.FilesService
	rootFolderID string
	limiter      *rate.Limiter
}

type Config struct {
	CredentialsJSON   []byte
	TokenJSON         []byte
	RootFolderID      string
	RequestsPerSecond float64
	Burst             int
}

// New builds a Client from service-account or OAuth client credentials.
func New(ctx context.Context, cfg Config, extra ...option.ClientOption) (*Client, error) {
	opts, err := credentialOptions(ctx, cfg.CredentialsJSON, cfg.TokenJSON)
	if err != nil {
		return nil, remoteErr("credentials", err)
	}
	return NewWithOptions(ctx, cfg, append(opts, extra...)...)
}

// NewWithOptions builds a Client with caller-supplied client options only.
func NewWithOptions(ctx context.Context, cfg Config, opts ...option.ClientOption) (*Client, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, remoteErr("create service", err)
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 10
	}

	return &Client{
		files:        svc.Files,
		rootFolderID: cfg.RootFolderID,
		limiter:      rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

func (c *Client) RootFolderID() string { return c.rootFolderID }

// Ping reads the root folder's metadata.
func (c *Client) Ping(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return remoteErr("ping", err)
	}
	root := c.rootFolderID
	if root == "" {
		root = "root"
	}
	if _, err := c.files.Get(root).Fields("id").SupportsAllDrives(true).Context(ctx).Do(); err != nil {
		return remoteErr("ping", err)
	}
	return nil
}

func (c *Client) FindFolder(ctx context.Context, name string) (string, bool, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", false, remoteErr("find folder", err)
	}

	q := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", escapeQuery(name), FolderMimeType)
	if c.rootFolderID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeQuery(c.rootFolderID))
	}

	list, err := c.files.List().
		Q(q).
		Fields("files(id, name)").
		PageSize(findPageSize).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", false, remoteErr("find folder", err)
	}
	if len(list.Files) == 0 {
		return "", false, nil
	}
	for _, f := range list.Files {
		if f.Name == name {
			return f.Id, true, nil
		}
	}
	return list.Files[0].Id, true, nil
}

func (c *Client) CreateFolder(ctx context.Context, name string) (string, error) {
	if id, ok, err := c.FindFolder(ctx, name); err != nil {
		return "", err
	} else if ok {
		return id, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", remoteErr("create folder", err)
	}
	created, err := c.files.Create(&drive.File{
		Name:     name,
		MimeType: FolderMimeType,
		Parents:  c.parents(""),
	}).Fields("id").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", remoteErr("create folder", err)
	}
	return created.Id, nil
}

func (c *Client) ListFoldersUnderRoot(ctx context.Context) ([]Folder, error) {
	q := fmt.Sprintf("mimeType='%s' and trashed=false", FolderMimeType)
	if c.rootFolderID != "" {
		q += fmt.Sprintf(" and '%s' in parents", escapeQuery(c.rootFolderID))
	}

	var out []Folder
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, remoteErr("list folders", err)
		}
		call := c.files.List().
			Q(q).
			Fields("nextPageToken, files(id, name, createdTime, modifiedTime)").
			OrderBy("modifiedTime desc").
			PageSize(listPageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, remoteErr("list folders", err)
		}
		for _, f := range list.Files {
			out = append(out, Folder{
				ID:         f.Id,
				Name:       f.Name,
				CreatedAt:  parseTime(f.CreatedTime),
				ModifiedAt: parseTime(f.ModifiedTime),
			})
		}
		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ModifiedAt.After(out[j].ModifiedAt)
	})
	return out, nil
}

func (c *Client) ListFiles(ctx context.Context, folderID string) ([]File, error) {
	q := fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(folderID))

	var out []File
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, remoteErr("list files", err)
		}
		call := c.files.List().
			Q(q).
			Fields("nextPageToken, files(id, name, mimeType, modifiedTime)").
			PageSize(listPageSize).
			SupportsAllDrives(true).
			IncludeItemsFromAllDrives(true).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		list, err := call.Do()
		if err != nil {
			return nil, remoteErr("list files", err)
		}
		for _, f := range list.Files {
			out = append(out, File{
				ID:         f.Id,
				Name:       f.Name,
				MimeType:   f.MimeType,
				ModifiedAt: parseTime(f.ModifiedTime),
			})
		}
		if list.NextPageToken == "" {
			break
		}
		pageToken = list.NextPageToken
	}
	return out, nil
}

func (c *Client) WriteArtifact(ctx context.Context, folderID, name, content string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", remoteErr("write artifact", err)
	}

	meta := &drive.File{Name: name, Parents: c.parents(folderID)}
	uploadType := "text/plain"
	if IsStructured(name) {
		meta.MimeType = JSONMimeType
		uploadType = JSONMimeType
	} else {
		meta.MimeType = DocumentMimeType
	}

	created, err := c.files.Create(meta).
		Media(strings.NewReader(content), googleapi.ContentType(uploadType)).
		Fields("id").
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return "", remoteErr("write artifact", err)
	}
	return created.Id, nil
}

func (c *Client) ReadArtifact(ctx context.Context, fileID string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", remoteErr("read artifact", err)
	}
	meta, err := c.files.Get(fileID).Fields("id, mimeType").SupportsAllDrives(true).Context(ctx).Do()
	if err != nil {
		return "", remoteErr("read artifact", err)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", remoteErr("read artifact", err)
	}
	var body io.ReadCloser
	if strings.HasPrefix(meta.MimeType, "application/vnd.google-apps.") {
		resp, err := c.files.Export(fileID, "text/plain").Context(ctx).Download()
		if err != nil {
			return "", remoteErr("export artifact", err)
		}
		body = resp.Body
	} else {
		resp, err := c.files.Get(fileID).SupportsAllDrives(true).Context(ctx).Download()
		if err != nil {
			return "", remoteErr("download artifact", err)
		}
		body = resp.Body
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxReadBytes+1))
	if err != nil {
		return "", remoteErr("read artifact", err)
	}
	if int64(len(data)) > maxReadBytes {
		return "", remoteErr("read artifact", fmt.Errorf("%w: %s is over %d bytes", ErrArtifactTooLarge, fileID, maxReadBytes))
	}
	return strings.TrimPrefix(string(data), "\ufeff"), nil
}

func (c *Client) parents(folderID string) []string {
	if folderID != "" {
		return []string{folderID}
	}
	if c.rootFolderID != "" {
		return []string{c.rootFolderID}
	}
	return nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}

func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
