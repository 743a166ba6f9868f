// Package publish renders page documents and stores them in an S3 bucket.
//
//	client := publish.NewClient(publish.ClientConfig{Region: "eu-west-1"})
//	p := &publish.Publisher{
//	    Client:   client,
//	    Bucket:   "my-site",
//	    Prefix:   "pages/",
//	    Renderer: render.NewRenderer(render.OptimizedConfig()),
//	}
//	results, err := p.PublishAll(ctx, store)
package publish

import (
	"bytes"
	"context"
	"log/slog"
	"path"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/pagefile"
	"github.com/vango-dev/loom/pkg/render"
)

// ContentType is the content type of published documents.
const ContentType = "text/html; charset=utf-8"

// DefaultConcurrency is the number of pages PublishAll uploads at once.
const DefaultConcurrency = 4

// PutObjectAPI is the part of *s3.Client a Publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Pages lists and returns decoded pages. *serve.Store implements it.
type Pages interface {
	Names() []string
	Get(name string) (*pagefile.Page, error)
}

// Publisher uploads rendered documents.
type Publisher struct {
	Client   PutObjectAPI
	Bucket   string
	Prefix   string
	Renderer *render.Renderer

	// CacheControl is sent with every object when set.
	CacheControl string

	// Concurrency bounds parallel uploads in PublishAll.
	// Default: DefaultConcurrency
	Concurrency int

	Logger *slog.Logger
}

// Result describes one uploaded document.
type Result struct {
	Name     string
	Key      string
	Bytes    int
	ETag     string
	Duration time.Duration
}

// Key returns the object key for a page name.
func (p *Publisher) Key(name string) string {
	return p.Prefix + path.Clean("/" + name)[1:] + ".html"
}

func (p *Publisher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *Publisher) renderer() *render.Renderer {
	if p.Renderer != nil {
		return p.Renderer
	}
	return render.NewRenderer(render.DefaultConfig())
}

// Publish renders page as a document and uploads it under Key(name).
func (p *Publisher) Publish(ctx context.Context, name string, page *pagefile.Page) (Result, error) {
	if p.Bucket == "" {
		return Result{}, errors.New("S002")
	}
	start := time.Now()

	out, err := p.renderer().RenderDocumentContext(ctx, page.Document())
	if err != nil {
		return Result{}, err
	}

	key := p.Key(name)
	input := &s3.PutObjectInput{
		Bucket:        aws.String(p.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(out),
		ContentLength: aws.Int64(int64(len(out))),
		ContentType:   aws.String(ContentType),
		Metadata: map[string]string{
			"page": name,
		},
	}
	if p.CacheControl != "" {
		input.CacheControl = aws.String(p.CacheControl)
	}

	resp, err := p.Client.PutObject(ctx, input)
	if err != nil {
		return Result{}, errors.New("S001").
			WithDetailf("uploading %s to bucket %s failed", key, p.Bucket).
			Wrap(err)
	}

	res := Result{
		Name:     name,
		Key:      key,
		Bytes:    len(out),
		Duration: time.Since(start),
	}
	if resp != nil {
		res.ETag = aws.ToString(resp.ETag)
	}
	p.logger().Info("page published",
		"page", name,
		"bucket", p.Bucket,
		"key", key,
		"bytes", res.Bytes,
		"duration", res.Duration)
	return res, nil
}

// PublishAll publishes every page, at most Concurrency at a time. It stops
// at the first failure; results are returned in page name order for the
// pages that were uploaded.
func (p *Publisher) PublishAll(ctx context.Context, pages Pages) ([]Result, error) {
	if p.Bucket == "" {
		return nil, errors.New("S002")
	}
	limit := p.Concurrency
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	names := pages.Names()
	results := make([]Result, len(names))
	done := make([]bool, len(names))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, name := range names {
		g.Go(func() error {
			page, err := pages.Get(name)
			if err != nil {
				return err
			}
			res, err := p.Publish(ctx, name, page)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i], done[i] = res, true
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	uploaded := results[:0]
	for i, ok := range done {
		if ok {
			uploaded = append(uploaded, results[i])
		}
	}
	return uploaded, err
}
