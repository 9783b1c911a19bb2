package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/offline_console/internal/config"
	"github.com/GTDGit/offline_console/internal/utils"
)

// presigner is the part of *s3.PresignClient the document service needs.
type presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// DocumentLink is a time-limited URL for an invoice PDF.
type DocumentLink struct {
	URL       string     `json:"url"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// DocumentService resolves invoice docPath values to downloadable links.
type DocumentService struct {
	bucket  string
	ttl     time.Duration
	presign presigner
}

// NewDocumentService creates a DocumentService. With no bucket configured
// only absolute document URLs can be resolved.
func NewDocumentService(ctx context.Context, cfg *config.S3Config) (*DocumentService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("S3 config is nil")
	}
	s := &DocumentService{bucket: cfg.Bucket, ttl: cfg.URLTTL}
	if cfg.Bucket == "" {
		log.Warn().Msg("S3 bucket not configured - invoice documents limited to absolute URLs")
		return s, nil
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	s.presign = s3.NewPresignClient(client)
	return s, nil
}

// Link returns a URL for docPath. Absolute http(s) URLs are returned as-is;
// anything else is treated as an object key in the bucket.
func (s *DocumentService) Link(ctx context.Context, docPath string) (*DocumentLink, error) {
	docPath = strings.TrimSpace(docPath)
	if docPath == "" {
		return nil, utils.ErrDocumentUnavailable
	}
	if strings.HasPrefix(docPath, "http://") || strings.HasPrefix(docPath, "https://") {
		return &DocumentLink{URL: docPath}, nil
	}
	if s.presign == nil {
		return nil, utils.ErrDocumentUnavailable
	}

	key := strings.TrimPrefix(docPath, "/")
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to presign invoice document")
		return nil, fmt.Errorf("presign %s: %w", key, err)
	}
	exp := time.Now().Add(s.ttl)
	return &DocumentLink{URL: req.URL, ExpiresAt: &exp}, nil
}
