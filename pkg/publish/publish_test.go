package publish

import (
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/loom/internal/errors"
	"github.com/vango-dev/loom/pkg/pagefile"
	"github.com/vango-dev/loom/pkg/render"
)

type object struct {
	bucket, key, contentType, cacheControl string
	length                                  int64
	body                                    string
	metadata                                map[string]string
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]object
	failKey string
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	key := aws.ToString(in.Key)
	if key == f.failKey {
		return nil, stderrors.New("access denied")
	}
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.objects == nil {
		f.objects = make(map[string]object)
	}
	f.objects[key] = object{
		bucket:       aws.ToString(in.Bucket),
		key:          key,
		contentType:  aws.ToString(in.ContentType),
		cacheControl: aws.ToString(in.CacheControl),
		length:       aws.ToInt64(in.ContentLength),
		body:         string(body),
		metadata:     in.Metadata,
	}
	return &s3.PutObjectOutput{ETag: aws.String(`"etag-` + key + `"`)}, nil
}

type pageMap map[string]*pagefile.Page

func (m pageMap) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (m pageMap) Get(name string) (*pagefile.Page, error) {
	p, ok := m[name]
	if !ok {
		return nil, errors.New("P002")
	}
	return p, nil
}

func decode(t *testing.T, src string) *pagefile.Page {
	t.Helper()
	p, err := pagefile.Decode(strings.NewReader(src))
	require.NoError(t, err)
	return p
}

func newPublisher(client PutObjectAPI) *Publisher {
	return &Publisher{
		Client:   client,
		Bucket:   "site",
		Prefix:   "pages/",
		Renderer: render.NewRenderer(render.DefaultConfig()),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestPublish(t *testing.T) {
	client := &fakeS3{}
	p := newPublisher(client)
	p.CacheControl = "max-age=60"

	page := decode(t, "title: Home\nbody:\n  - {tag: h1, text: Hello}\n")
	res, err := p.Publish(context.Background(), "home", page)
	require.NoError(t, err)

	want := "<!doctype html><html><head><title>Home</title></head><body><h1>Hello</h1></body></html>"
	assert.Equal(t, "pages/home.html", res.Key)
	assert.Equal(t, len(want), res.Bytes)
	assert.Equal(t, `"etag-pages/home.html"`, res.ETag)

	obj := client.objects["pages/home.html"]
	assert.Equal(t, "site", obj.bucket)
	assert.Equal(t, want, obj.body)
	assert.Equal(t, int64(len(want)), obj.length)
	assert.Equal(t, ContentType, obj.contentType)
	assert.Equal(t, "max-age=60", obj.cacheControl)
	assert.Equal(t, map[string]string{"page": "home"}, obj.metadata)
}

func TestPublishErrors(t *testing.T) {
	page := decode(t, "body: []\n")

	t.Run("missing bucket", func(t *testing.T) {
		p := newPublisher(&fakeS3{})
		p.Bucket = ""
		_, err := p.Publish(context.Background(), "home", page)
		assert.Equal(t, "S002", errors.Code(err))
	})

	t.Run("upload failure", func(t *testing.T) {
		p := newPublisher(&fakeS3{failKey: "pages/home.html"})
		_, err := p.Publish(context.Background(), "home", page)
		require.Error(t, err)
		assert.Equal(t, "S001", errors.Code(err))
		assert.Contains(t, err.Error(), "access denied")
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := &fakeS3{}
		_, err := newPublisher(client).Publish(ctx, "home", page)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, client.objects)
	})
}

func TestKey(t *testing.T) {
	p := &Publisher{Prefix: "site/"}
	assert.Equal(t, "site/home.html", p.Key("home"))
	assert.Equal(t, "site/docs/intro.html", p.Key("docs/intro"))
	assert.Equal(t, "site/etc.html", p.Key("../../etc"))
}

func TestPublishAll(t *testing.T) {
	pages := pageMap{
		"home":    decode(t, "title: Home\nbody: [{tag: p, text: home}]\n"),
		"about":   decode(t, "title: About\nbody: [{tag: p, text: about}]\n"),
		"contact": decode(t, "title: Contact\nbody: [{tag: p, text: contact}]\n"),
	}

	client := &fakeS3{}
	p := newPublisher(client)
	p.Concurrency = 2

	results, err := p.PublishAll(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "about", results[0].Name)
	assert.Equal(t, "contact", results[1].Name)
	assert.Equal(t, "home", results[2].Name)
	assert.Len(t, client.objects, 3)
	assert.Contains(t, client.objects["pages/contact.html"].body, "<p>contact</p>")
}

func TestPublishAllStopsOnFailure(t *testing.T) {
	pages := pageMap{
		"home":  decode(t, "body: []\n"),
		"about": decode(t, "body: []\n"),
	}
	p := newPublisher(&fakeS3{failKey: "pages/about.html"})
	p.Concurrency = 1

	results, err := p.PublishAll(context.Background(), pages)
	require.Error(t, err)
	assert.Equal(t, "S001", errors.Code(err))
	assert.Empty(t, results)
}

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{
		Region:          "eu-west-1",
		Endpoint:        "http://localhost:9000",
		PathStyle:       true,
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
	})
	opts := client.Options()
	assert.Equal(t, "eu-west-1", opts.Region)
	assert.Equal(t, "http://localhost:9000", aws.ToString(opts.BaseEndpoint))
	assert.True(t, opts.UsePathStyle)

	creds, err := opts.Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "key", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)
}

func TestNewClientEnvironmentCredentials(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "env-key")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "env-secret")
	t.Setenv("AWS_SESSION_TOKEN", "")

	creds, err := NewClient(ClientConfig{Region: "us-east-1"}).Options().Credentials.Retrieve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "env-key", creds.AccessKeyID)
	assert.Equal(t, "environment", creds.Source)
}
