package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Tables names the five DynamoDB tables the write path touches. Defaults
// match the deployed table names; a YAML file and per-table env vars can
// override them for local stacks.
type Tables struct {
	Companies         string `yaml:"companies"`
	Causes            string `yaml:"causes"`
	UserBoycotts      string `yaml:"user_boycotts"`
	UserCauses        string `yaml:"user_causes"`
	CauseCompanyStats string `yaml:"cause_company_stats"`
}

func DefaultTables() Tables {
	return Tables{
		Companies:         "companies",
		Causes:            "causes",
		UserBoycotts:      "user_boycotts",
		UserCauses:        "user_causes",
		CauseCompanyStats: "cause_company_stats",
	}
}

// LoadTables layers, in order: defaults, the YAML file at path (if any),
// then TABLE_* env overrides.
func LoadTables(path string) (Tables, error) {
	t := DefaultTables()
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return t, fmt.Errorf("read tables config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &t); err != nil {
			return t, fmt.Errorf("parse tables config: %w", err)
		}
	}
	overlay(&t.Companies, "TABLE_COMPANIES")
	overlay(&t.Causes, "TABLE_CAUSES")
	overlay(&t.UserBoycotts, "TABLE_USER_BOYCOTTS")
	overlay(&t.UserCauses, "TABLE_USER_CAUSES")
	overlay(&t.CauseCompanyStats, "TABLE_CAUSE_COMPANY_STATS")
	if err := t.validate(); err != nil {
		return t, err
	}
	return t, nil
}

func (t Tables) validate() error {
	for name, v := range map[string]string{
		"companies":           t.Companies,
		"causes":              t.Causes,
		"user_boycotts":       t.UserBoycotts,
		"user_causes":         t.UserCauses,
		"cause_company_stats": t.CauseCompanyStats,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("tables config: %s is empty", name)
		}
	}
	return nil
}

func overlay(dst *string, envName string) {
	if v := strings.TrimSpace(os.Getenv(envName)); v != "" {
		*dst = v
	}
}
