package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

// RegionFailure records a region that contributed no records
type RegionFailure struct {
	Region string
	Err    error
}

func (f RegionFailure) Error() string {
	return fmt.Sprintf("region %s: %v", f.Region, f.Err)
}

func (f RegionFailure) Unwrap() error {
	return f.Err
}

// Result is the outcome of one aggregation
type Result struct {
	Discovered []types.InstanceRecord
	Eligible   []types.InstanceRecord
	Failures   []RegionFailure
}

// Err joins the region failures, nil if every region succeeded
func (r *Result) Err() error {
	errs := make([]error, 0, len(r.Failures))
	for _, f := range r.Failures {
		errs = append(errs, f)
	}
	return errors.Join(errs...)
}

// Aggregator runs the Collector over many regions
type Aggregator struct {
	Collector *Collector

	// Concurrency caps parallel regions; 0 means one goroutine per region
	Concurrency int
}

// NewAggregator creates an Aggregator with unbounded concurrency
func NewAggregator(c *Collector) *Aggregator {
	return &Aggregator{Collector: c}
}

// Aggregate collects every region and filters to eligible records. A failed
// region is recorded in Result.Failures and contributes nothing.
func (a *Aggregator) Aggregate(ctx context.Context, regions []string) *Result {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		result = &Result{}
	)

	var sem chan struct{}
	if a.Concurrency > 0 {
		sem = make(chan struct{}, a.Concurrency)
	}

	for _, region := range regions {
		wg.Add(1)
		go func(region string) {
			defer wg.Done()

			if sem != nil {
				select {
				case sem <- struct{}{}:
					defer func() { <-sem }()
				case <-ctx.Done():
					mu.Lock()
					result.Failures = append(result.Failures, RegionFailure{Region: region, Err: ctx.Err()})
					mu.Unlock()
					return
				}
			}

			records, err := a.Collector.Collect(ctx, region)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Failures = append(result.Failures, RegionFailure{Region: region, Err: err})
				return
			}
			result.Discovered = append(result.Discovered, records...)
		}(region)
	}

	wg.Wait()

	sortRecords(result.Discovered)
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Region < result.Failures[j].Region
	})
	result.Eligible = Filter(result.Discovered)

	return result
}

// Filter returns the records that are running and addressable, in input order
func Filter(records []types.InstanceRecord) []types.InstanceRecord {
	var eligible []types.InstanceRecord
	for _, rec := range records {
		if rec.Eligible() {
			eligible = append(eligible, rec)
		}
	}
	return eligible
}

// sortRecords orders records by region, name and ID so artifacts do not
// depend on which region answered first
func sortRecords(records []types.InstanceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Region != b.Region {
			return a.Region < b.Region
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
