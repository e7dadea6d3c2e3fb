package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/vietdv277/ec2hosts/pkg/provider"
)

// DefaultQueryRegion is the endpoint used for region-agnostic calls
const DefaultQueryRegion = "eu-west-3"

// EC2API defines the EC2 operations used for discovery
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
}

// STSAPI defines the STS operations used to resolve the caller
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// Client wraps AWS SDK clients
type Client struct {
	cfg         aws.Config
	profile     string
	region      string
	maxAttempts int

	// newEC2 returns an EC2 client bound to a region
	newEC2 func(region string) EC2API
	sts    STSAPI
}

// ClientOption allows customizing the AWS Client
type ClientOption func(*Client)

// WithProfile sets the AWS profile for the client
func WithProfile(profile string) ClientOption {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithRegion sets the region used for region-agnostic queries
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		c.region = region
	}
}

// WithRetryMaxAttempts sets the SDK retryer's attempt budget per call
func WithRetryMaxAttempts(n int) ClientOption {
	return func(c *Client) {
		c.maxAttempts = n
	}
}

// NewClient creates a new AWS Client with the given options
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{
		region: DefaultQueryRegion,
	}

	for _, opt := range opts {
		opt(c)
	}
	if c.region == "" {
		c.region = DefaultQueryRegion
	}

	var configOpts []func(*config.LoadOptions) error

	if c.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(c.profile))
	}

	configOpts = append(configOpts, config.WithRegion(c.region))

	if c.maxAttempts > 0 {
		configOpts = append(configOpts, config.WithRetryMaxAttempts(c.maxAttempts))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS SDK config: %w", provider.ErrNotConfigured, err)
	}

	c.cfg = cfg
	c.newEC2 = func(region string) EC2API {
		return ec2.NewFromConfig(cfg, func(o *ec2.Options) {
			o.Region = region
		})
	}
	c.sts = sts.NewFromConfig(cfg)

	return c, nil
}

// Profile returns the configured profile, "" for the default chain
func (c *Client) Profile() string {
	return c.profile
}

// Region returns the query region
func (c *Client) Region() string {
	return c.region
}
