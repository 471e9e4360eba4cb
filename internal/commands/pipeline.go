package commands

import (
	"context"
	"net/netip"

	"github.com/nathaningle/fetch-iplist/internal/config"
	"github.com/nathaningle/fetch-iplist/internal/hashing"
	"github.com/nathaningle/fetch-iplist/internal/lists"
	"github.com/nathaningle/fetch-iplist/internal/log"
	"github.com/nathaningle/fetch-iplist/internal/netlist"
	"github.com/nathaningle/fetch-iplist/internal/publish"
)

// sourceCount records how many prefixes one source contributed before
// aggregation.
type sourceCount struct {
	Name  string
	Count int
}

// assembledList is the result of one fetch/extract/aggregate cycle.
type assembledList struct {
	nets         []netip.Prefix
	serialized   []byte
	digest       string
	sourceCounts []sourceCount
}

// assembleList fetches every configured source and reduces the union of
// their prefixes to the minimal aggregated list.
func assembleList(ctx context.Context, cfg *config.Config) (*assembledList, error) {
	bodies, err := lists.FetchAll(ctx, cfg.Sources)
	if err != nil {
		return nil, err
	}

	var all []netip.Prefix
	counts := make([]sourceCount, 0, len(bodies))
	for i, body := range bodies {
		nets := netlist.Extract(body)
		log.Debugf("Source \"%s\": extracted %d prefixes", cfg.Sources[i].Name, len(nets))
		counts = append(counts, sourceCount{Name: cfg.Sources[i].Name, Count: len(nets)})
		all = append(all, nets...)
	}

	aggregated := netlist.Aggregate(all)
	log.Infof("Aggregated %d prefixes from %d sources into %d entries", len(all), len(bodies), len(aggregated))

	digest := hashing.NewLineDigest()
	for _, p := range aggregated {
		digest.Put(p.String())
	}

	return &assembledList{
		nets:         aggregated,
		serialized:   netlist.Serialize(aggregated),
		digest:       digest.GetChecksum(),
		sourceCounts: counts,
	}, nil
}

// publishList atomically replaces the configured destination with data,
// capturing the destination's metadata fresh for this attempt.
func publishList(cfg *config.Config, data []byte) error {
	p, err := publish.NewPublisher(cfg.GetAbsDestination(), cfg.GetAbsStagingDir())
	if err != nil {
		return err
	}
	defer p.Discard()
	return p.Commit(data)
}
