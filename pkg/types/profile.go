package types

// AWSProfile represents an AWS CLI profile
type AWSProfile struct {
	Name   string
	Region string // from config file if set
	Source string // "credentials" or "config"
}

// CallerIdentity identifies the principal the tool runs as
type CallerIdentity struct {
	Account string
	Arn     string
	UserID  string
}
