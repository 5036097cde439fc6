package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# rentab configuration

[assumptions]
# Notary fees added to the price when the listing excludes them (percent)
notary_fees_percent = 8.0

# Values a new scenario starts from; every field can be overridden by a
# scenario file or a command-line flag.
[defaults]
age = 30
monthly_revenue = 4000.0
down_payment = 10000.0
annual_rate = 3.5
duration = 20
purchase_price = 140000.0
notary_fees_included = true
works_cost = 0.0
monthly_rent = 850.0
property_tax = 1000.0
condo_fees = 500.0
management_fee_percent = 0.0

[server]
# Listen address for 'rentab serve'
addr = ":8080"
# Redis address for the evaluation cache; empty keeps results in memory
redis_addr = ""
# How long a cached evaluation stays valid
cache_ttl = "1h"
# Requests per second accepted on /evaluate (0 = unlimited)
rate_limit = 0.0
rate_burst = 20

[sweep]
# Concurrent evaluations for 'rentab sweep' (0 = number of CPUs)
workers = 0

[log]
# debug, info, warn, error
level = "info"
# Also write rotated logs to file_path
file = false
# file_path = "/var/log/rentab/rentab.log"
max_size = 100
max_backups = 7
max_age = 30

[ui]
# Enable colored output
color_enabled = true
`

func createTemplateConfig(configDir, name string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, name+".toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
