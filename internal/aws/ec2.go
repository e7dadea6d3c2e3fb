package aws

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/smithy-go"

	"github.com/vietdv277/ec2hosts/pkg/provider"
	"github.com/vietdv277/ec2hosts/pkg/types"
)

// ListRegions returns the regions enabled for the account, sorted by name
func (c *Client) ListRegions(ctx context.Context) ([]string, error) {
	output, err := c.newEC2(c.region).DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", classify(err))
	}

	regions := make([]string, 0, len(output.Regions))
	for _, r := range output.Regions {
		if name := aws.ToString(r.RegionName); name != "" {
			regions = append(regions, name)
		}
	}
	sort.Strings(regions)

	return regions, nil
}

// ListInstances returns every instance in the region, across all pages
func (c *Client) ListInstances(ctx context.Context, region string) ([]types.RawInstance, error) {
	paginator := ec2.NewDescribeInstancesPaginator(c.newEC2(region), &ec2.DescribeInstancesInput{})

	var instances []types.RawInstance
	for paginator.HasMorePages() {
		output, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe instances in %s: %w", region, classify(err))
		}

		for _, reservation := range output.Reservations {
			for _, inst := range reservation.Instances {
				instances = append(instances, toRawInstance(inst, region))
			}
		}
	}

	return instances, nil
}

// toRawInstance converts an EC2 Instance to our RawInstance type
func toRawInstance(i ec2types.Instance, region string) types.RawInstance {
	raw := types.RawInstance{
		ID:           aws.ToString(i.InstanceId),
		Region:       region,
		PublicDNS:    aws.ToString(i.PublicDnsName),
		PublicIP:     aws.ToString(i.PublicIpAddress),
		PrivateDNS:   aws.ToString(i.PrivateDnsName),
		PrivateIP:    aws.ToString(i.PrivateIpAddress),
		InstanceType: string(i.InstanceType),
	}

	if i.State != nil {
		raw.State = string(i.State.Name)
	}

	if i.LaunchTime != nil {
		raw.LaunchTime = *i.LaunchTime
	}

	for _, tag := range i.Tags {
		raw.Tags = append(raw.Tags, types.Tag{
			Key:   aws.ToString(tag.Key),
			Value: aws.ToString(tag.Value),
		})
	}

	return raw
}

// classify maps AWS authorization error codes onto provider sentinels
func classify(err error) error {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return err
	}

	switch apiErr.ErrorCode() {
	case "AuthFailure", "InvalidClientTokenId", "ExpiredToken", "ExpiredTokenException",
		"UnrecognizedClientException", "SignatureDoesNotMatch":
		return fmt.Errorf("%w: %w", provider.ErrAuthFailed, err)
	case "UnauthorizedOperation", "AccessDenied", "AccessDeniedException", "OptInRequired":
		return fmt.Errorf("%w: %w", provider.ErrPermissionDenied, err)
	default:
		return err
	}
}
