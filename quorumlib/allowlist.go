package quorumlib

import (
	"bufio"
	"fmt"
	"net"
	"strings"

	cidrman "github.com/EvilSuperstars/go-cidrman"
	"github.com/asergeyev/nradix"
	"github.com/spf13/afero"
)

// AddressAllowlist is a set of addresses and CIDR ranges exempted from
// VPN rejection. It is populated once from a file and immutable
// afterwards.
type AddressAllowlist struct {
	tree *nradix.Tree
}

func (a *AddressAllowlist) Contains(ip net.IP) bool {
	if a == nil || ip == nil {
		return false
	}

	value, err := a.tree.FindCIDR(ip.String())

	return err == nil && value != nil
}

// LoadAllowlist reads a newline-delimited list of addresses and CIDR
// ranges. Blank lines and lines starting with # are skipped, bare
// addresses are widened to host routes. Adjacent IPv4 ranges are merged
// before they are put into the radix tree.
func LoadAllowlist(fs afero.Fs, path string) (*AddressAllowlist, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open allowlist file: %w", err)
	}

	defer file.Close()

	v4Ranges := []string{}
	v6Ranges := []string{}
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !strings.Contains(line, "/") {
			ip := net.ParseIP(line)

			switch {
			case ip == nil:
				return nil, fmt.Errorf("incorrect address %s", line)
			case ip.To4() != nil:
				line += "/32"
			default:
				line += "/128"
			}
		}

		if _, _, err := net.ParseCIDR(line); err != nil {
			return nil, fmt.Errorf("incorrect cidr %s: %w", line, err)
		}

		if strings.Contains(line, ":") {
			v6Ranges = append(v6Ranges, line)
		} else {
			v4Ranges = append(v4Ranges, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read allowlist file: %w", err)
	}

	// cidrman does not merge IPv6 ranges, those go in as is.
	merged, err := cidrman.MergeCIDRs(v4Ranges)
	if err != nil {
		return nil, fmt.Errorf("cannot merge cidrs: %w", err)
	}

	tree := nradix.NewTree(0)

	for _, v := range append(merged, v6Ranges...) {
		if err := tree.AddCIDR(v, true); err != nil {
			return nil, fmt.Errorf("cannot add %s to the tree: %w", v, err)
		}
	}

	return &AddressAllowlist{tree: tree}, nil
}
