package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/ec2/imds"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/namelessknight/autostartstop/internal/models"
	"github.com/namelessknight/autostartstop/pkg/utils"
)

// EC2API is the subset of the EC2 client the scheduler uses. *ec2.Client
// satisfies it; tests substitute a fake.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StartInstances(ctx context.Context, params *ec2.StartInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StartInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

// EC2Client struct for EC2 fleet control
type EC2Client struct {
	api    EC2API
	region string
}

// NewEC2Client creates a new EC2Client for a region
func NewEC2Client(ctx context.Context, region string) (*EC2Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithEC2IMDSClientEnableState(imds.ClientEnabled),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return &EC2Client{
		api:    ec2.NewFromConfig(cfg),
		region: region,
	}, nil
}

// NewEC2ClientFromAPI creates an EC2Client around an existing API
// implementation
func NewEC2ClientFromAPI(api EC2API, region string) *EC2Client {
	return &EC2Client{api: api, region: region}
}

// Region returns the region this client operates in
func (c *EC2Client) Region() string {
	return c.region
}

// ListTaggedInstances returns the stopped and running instances carrying
// the given tag key, with the tag's value and the full tag map
func (c *EC2Client) ListTaggedInstances(ctx context.Context, tagKey string) ([]models.InstanceRecord, error) {
	filters := []types.Filter{
		{
			Name:   aws.String("tag-key"),
			Values: []string{tagKey},
		},
		{
			Name:   aws.String("instance-state-name"),
			Values: []string{"stopped", "running"},
		},
	}

	input := &ec2.DescribeInstancesInput{
		Filters: filters,
	}

	result, err := c.api.DescribeInstances(ctx, input)
	if err != nil {
		return nil, &InventoryError{TagKey: tagKey, Region: c.region, Err: err}
	}

	var records []models.InstanceRecord
	for _, reservation := range result.Reservations {
		for _, instance := range reservation.Instances {
			tagValue := utils.GetTagValue(instance.Tags, tagKey)
			if tagValue == "" {
				continue
			}
			records = append(records, models.InstanceRecord{
				ID:       aws.ToString(instance.InstanceId),
				TagValue: tagValue,
				Tags:     utils.GetTagsMap(instance.Tags),
			})
		}
	}

	return records, nil
}

// StartInstance starts a single instance. Starting an instance that is
// already running is a no-op on the provider side.
func (c *EC2Client) StartInstance(ctx context.Context, id string) error {
	input := &ec2.StartInstancesInput{
		InstanceIds: []string{id},
	}
	if _, err := c.api.StartInstances(ctx, input); err != nil {
		return &ControlCommandError{Op: "start", InstanceID: id, Err: err}
	}
	return nil
}

// StopInstance stops a single instance. Stopping an instance that is
// already stopped is a no-op on the provider side.
func (c *EC2Client) StopInstance(ctx context.Context, id string) error {
	input := &ec2.StopInstancesInput{
		InstanceIds: []string{id},
	}
	if _, err := c.api.StopInstances(ctx, input); err != nil {
		return &ControlCommandError{Op: "stop", InstanceID: id, Err: err}
	}
	return nil
}
