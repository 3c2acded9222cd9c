// Package archive copies finished scan reports into S3-compatible object
// storage.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
	"github.com/dmitrijs2005/autoscanml/internal/netx"
)

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// ErrNoBucket is returned by New when no bucket is configured.
var ErrNoBucket = errors.New("archive bucket is not configured")

const defaultReportName = "report.pdf"

// Settings describes the target bucket. Empty AccessKeyID falls back to the
// default AWS credential chain.
type Settings struct {
	Bucket          string `json:"bucket" yaml:"bucket"`
	Region          string `json:"region" yaml:"region"`
	Endpoint        string `json:"endpoint" yaml:"endpoint"`
	Prefix          string `json:"prefix" yaml:"prefix"`
	AccessKeyID     string `json:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key" yaml:"secret_access_key"`
}

// Downloader fetches a report body. client.Client satisfies it.
type Downloader interface {
	DownloadReport(ctx context.Context, url string, w io.Writer) error
}

// ObjectPutter is the subset of *s3.Client used here.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Archiver struct {
	settings Settings
	dl       Downloader
	putter   ObjectPutter
	log      logging.Logger
}

// New builds an archiver backed by a real S3 client.
func New(ctx context.Context, s Settings, dl Downloader, log logging.Logger) (*S3Archiver, error) {
	if s.Bucket == "" {
		return nil, ErrNoBucket
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(s.Region)}
	if s.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.AccessKeyID,
			s.SecretAccessKey,
			"",
		)))
	}

	cfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewWithPutter(s, dl, client, log), nil
}

// NewWithPutter wires an archiver to an existing putter.
func NewWithPutter(s Settings, dl Downloader, p ObjectPutter, log logging.Logger) *S3Archiver {
	if log == nil {
		log = logging.Nop()
	}
	return &S3Archiver{settings: s, dl: dl, putter: p, log: log.With("component", "archive")}
}

// Key is the object key a report for uploadID is stored under.
func (a *S3Archiver) Key(uploadID, reportURL string) string {
	name := netx.FileNameFromURL(reportURL)
	if name == "" {
		name = defaultReportName
	}
	return path.Join(strings.Trim(a.settings.Prefix, "/"), uploadID, name)
}

// Archive downloads the report and stores it. It returns an s3:// location.
func (a *S3Archiver) Archive(ctx context.Context, uploadID, reportURL string) (string, error) {
	var buf bytes.Buffer
	if err := a.dl.DownloadReport(ctx, reportURL, &buf); err != nil {
		return "", fmt.Errorf("download report: %w", err)
	}

	key := a.Key(uploadID, reportURL)
	_, err := a.putter.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.settings.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(buf.Bytes()),
		ContentLength: aws.Int64(int64(buf.Len())),
		ContentType:   aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	loc := fmt.Sprintf("s3://%s/%s", a.settings.Bucket, key)
	a.log.Info(ctx, "report archived", "location", loc, "bytes", buf.Len())
	return loc, nil
}
