package aws

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/vietdv277/ec2hosts/pkg/types"
)

// ListProfiles reads AWS profiles from ~/.aws/credentials and ~/.aws/config
func ListProfiles() ([]types.AWSProfile, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return listProfilesIn(filepath.Join(home, ".aws")), nil
}

// ValidateProfile checks if a profile exists
func ValidateProfile(name string) bool {
	profiles, err := ListProfiles()
	if err != nil {
		return false
	}
	for _, p := range profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

func listProfilesIn(dir string) []types.AWSProfile {
	merged := make(map[string]types.AWSProfile)

	for _, source := range []string{"credentials", "config"} {
		f, err := os.Open(filepath.Join(dir, source))
		if err != nil {
			continue
		}
		found, _ := parseProfiles(f, source)
		f.Close()

		for _, p := range found {
			existing, ok := merged[p.Name]
			if !ok {
				merged[p.Name] = p
				continue
			}
			if existing.Region == "" {
				existing.Region = p.Region
				merged[p.Name] = existing
			}
		}
	}

	profiles := make([]types.AWSProfile, 0, len(merged))
	for _, p := range merged {
		profiles = append(profiles, p)
	}

	// "default" first, then alphabetical
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name == "default" || profiles[j].Name == "default" {
			return profiles[i].Name == "default"
		}
		return profiles[i].Name < profiles[j].Name
	})

	return profiles
}

// parseProfiles reads an AWS shared config or credentials file
func parseProfiles(r io.Reader, source string) ([]types.AWSProfile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", source, err)
	}

	file, err := ini.LoadSources(ini.LoadOptions{SkipUnrecognizableLines: true}, data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	var profiles []types.AWSProfile
	for _, section := range file.Sections() {
		name := strings.TrimSpace(section.Name())
		if name == ini.DefaultSection {
			continue
		}
		// sso-session and services blocks are not profiles
		if strings.HasPrefix(name, "sso-session ") || strings.HasPrefix(name, "services ") {
			continue
		}

		p := types.AWSProfile{
			Name:   strings.TrimSpace(strings.TrimPrefix(name, "profile ")),
			Source: source,
		}
		if section.HasKey("region") {
			p.Region = strings.TrimSpace(section.Key("region").String())
		}
		profiles = append(profiles, p)
	}

	return profiles, nil
}
