package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/skinderma/internal/catalog"
)

func symptomsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "symptoms",
		Short: "List the symptoms that can be selected",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, *configFile)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close() }()

			printSymptoms(cmd.OutOrStdout(), rt.catalog.Symptoms())
			return nil
		},
	}
}

func conditionsCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "conditions",
		Short: "List known conditions with their symptoms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := loadRuntime(cmd, *configFile)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close() }()

			printConditions(cmd.OutOrStdout(), rt.catalog.Conditions())
			return nil
		},
	}
}

func printSymptoms(w io.Writer, symptoms []catalog.Symptom) {
	for _, symptom := range symptoms {
		if symptom.Description == "" {
			fmt.Fprintln(w, symptom.Name)
			continue
		}
		fmt.Fprintf(w, "%s\t%s\n", symptom.Name, symptom.Description)
	}
}

func printConditions(w io.Writer, conditions []catalog.Condition) {
	for _, condition := range conditions {
		names := make([]string, 0, len(condition.Symptoms))
		for _, symptom := range condition.Symptoms {
			names = append(names, symptom.Name)
		}
		fmt.Fprintf(w, "%s: %s\n", condition.Name, strings.Join(names, ", "))
	}
}
