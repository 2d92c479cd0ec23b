package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/skinderma/internal/i18n"
	"github.com/terraincognita07/skinderma/internal/services"
)

type diagnoseOutput struct {
	Outcome   services.Outcome `json:"outcome"`
	Condition string           `json:"condition,omitempty"`
	Treatment []string         `json:"treatment,omitempty"`
	Score     int              `json:"score"`
	Selected  []string         `json:"selected"`
}

func diagnoseCmd(configFile *string) *cobra.Command {
	var format string
	var language string

	c := &cobra.Command{
		Use:   "diagnose [symptom]...",
		Short: "Find the condition that best matches the given symptoms",
		Example: `  skinderma diagnose Redness Itching Rash
  skinderma diagnose --format json Pain Blisters`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd, *configFile)
			if err != nil {
				return err
			}
			defer func() { _ = rt.close() }()

			manager, err := i18n.NewManager(rt.cfg.I18n.DefaultLanguage, rt.cfg.I18n.LocalesDir)
			if err != nil {
				return err
			}
			if language == "" {
				language = manager.DefaultLanguage()
			}
			language = manager.NormalizeLanguage(language)

			diagnosis := services.NewDiagnosisService(rt.catalog).DiagnoseNames(args)
			rt.logger.WithFields(logrus.Fields{
				"source":   "cli",
				"outcome":  diagnosis.Outcome,
				"selected": len(diagnosis.Selected),
			}).Debug("diagnosis computed")

			return printDiagnosis(cmd.OutOrStdout(), diagnosis, manager, language, format)
		},
	}

	c.Flags().StringVar(&format, "format", "pretty", "Output format: pretty|json")
	c.Flags().StringVar(&language, "lang", "", "Language for pretty output (default: configured default language)")
	return c
}

func printDiagnosis(w io.Writer, diagnosis services.Diagnosis, manager *i18n.Manager, language string, format string) error {
	switch format {
	case "json":
		output := diagnoseOutput{
			Outcome:  diagnosis.Outcome,
			Score:    diagnosis.Score,
			Selected: diagnosis.Selected,
		}
		if output.Selected == nil {
			output.Selected = []string{}
		}
		if diagnosis.Matched() {
			output.Condition = diagnosis.Condition.Name
			output.Treatment = diagnosis.Condition.Treatment
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(output)
	case "pretty", "":
		printPrettyDiagnosis(w, diagnosis, manager, language)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (expected pretty|json)", format)
	}
}

func printPrettyDiagnosis(w io.Writer, diagnosis services.Diagnosis, manager *i18n.Manager, language string) {
	switch diagnosis.Outcome {
	case services.OutcomeEmptySelection:
		fmt.Fprintln(w, manager.Translate(language, "error.select_symptom"))
	case services.OutcomeNoMatch:
		fmt.Fprintln(w, manager.Translate(language, "result.no_match"))
	default:
		fmt.Fprintf(w, "%s: %s\n", manager.Translate(language, "result.condition"), diagnosis.Condition.Name)
		fmt.Fprintln(w, manager.Translatef(language, "result.matched", diagnosis.Score, len(diagnosis.Selected)))
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s:\n", manager.Translate(language, "result.care_plan"))
		for _, step := range diagnosis.Condition.Treatment {
			fmt.Fprintf(w, "  - %s\n", step)
		}
	}
}
