package fetch

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
)

// Profile selects the credential source for object-storage downloads. The
// zero value auto-detects ambient credentials; NamedProfile pins a shared
// config profile; AnonymousProfile forces unauthenticated access.
type Profile struct {
	name      string
	anonymous bool
}

// NamedProfile selects a named shared-config credential profile.
func NamedProfile(name string) Profile { return Profile{name: name} }

// AnonymousProfile forces unauthenticated access.
func AnonymousProfile() Profile { return Profile{anonymous: true} }

// Named returns the profile name, if one was selected.
func (p Profile) Named() (string, bool) { return p.name, p.name != "" }

// Anonymous reports whether unauthenticated access was forced.
func (p Profile) Anonymous() bool { return p.anonymous }

// CredentialResolver abstracts credential probing and loading so strategy
// selection can be tested without real ambient state.
type CredentialResolver interface {
	// Ambient loads the default credential chain and reports whether usable
	// credentials were found. A missing credential source is not an error.
	Ambient(ctx context.Context) (aws.Config, bool, error)
	// Named loads the credential session for a named profile.
	Named(ctx context.Context, profile string) (aws.Config, error)
}

// NewCredentialResolver returns the resolver backed by the AWS shared
// config chain.
func NewCredentialResolver() CredentialResolver { return awsCredentialResolver{} }

type awsCredentialResolver struct{}

func (awsCredentialResolver) Ambient(ctx context.Context) (aws.Config, bool, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return aws.Config{}, false, nil
	}
	if _, err := cfg.Credentials.Retrieve(ctx); err != nil {
		return cfg, false, nil
	}
	return cfg, true, nil
}

func (awsCredentialResolver) Named(ctx context.Context, profile string) (aws.Config, error) {
	return config.LoadDefaultConfig(ctx, config.WithSharedConfigProfile(profile))
}

// Strategy is the transfer mechanism chosen for an object-storage download.
type Strategy int

const (
	// StrategySession streams through an authenticated client session.
	StrategySession Strategy = iota
	// StrategyAnonymous uses the dedicated storage client without
	// credentials.
	StrategyAnonymous
)

func (s Strategy) String() string {
	switch s {
	case StrategySession:
		return "session"
	case StrategyAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// chooseS3Strategy applies the transfer decision table for s3 paths: a named
// profile streams through that credential session, forced-anonymous uses the
// storage client, and the default probes for ambient credentials.
func chooseS3Strategy(ctx context.Context, p Profile, r CredentialResolver) (Strategy, aws.Config, error) {
	switch {
	case p.Anonymous():
		return StrategyAnonymous, aws.Config{}, nil
	default:
		if name, ok := p.Named(); ok {
			cfg, err := r.Named(ctx, name)
			return StrategySession, cfg, err
		}
		cfg, found, err := r.Ambient(ctx)
		if err != nil {
			return 0, aws.Config{}, err
		}
		if found {
			return StrategySession, cfg, nil
		}
		return StrategyAnonymous, aws.Config{}, nil
	}
}
