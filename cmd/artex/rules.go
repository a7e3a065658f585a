package main

import "fmt"

// Run executes the rules list command.
func (c *RulesListCmd) Run(deps *Dependencies) error {
	sites := deps.Rules.Sites()
	if len(sites) == 0 {
		fmt.Fprintln(deps.Stdout, "No rules configured.")
		return nil
	}
	for _, site := range sites {
		fmt.Fprintln(deps.Stdout, site)
	}
	return nil
}
