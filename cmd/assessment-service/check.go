package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/talentflow-assessment/internal/services"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
)

var checkCmd = &cobra.Command{
	Use:   "check FILE...",
	Short: "Validate assessment structure documents (JSON or YAML)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v := validator.New()
		failed := 0

		for _, path := range args {
			if err := checkFile(v, path); err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d documents invalid", failed, len(args))
		}
		return nil
	},
}

func checkFile(v *validator.Validator, path string) error {
	data, format, err := readDocument(path)
	if err != nil {
		return err
	}

	structure, err := services.DecodeDocument(v, data, format)
	if err != nil {
		return err
	}

	if err := v.ValidateStructure(structure); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			lines := make([]string, 0, len(errs))
			for _, e := range errs {
				lines = append(lines, fmt.Sprintf("%s: %s", e.Field, e.Message))
			}
			return errors.New(strings.Join(lines, "; "))
		}
		return err
	}
	return nil
}

func readDocument(path string) ([]byte, services.DocumentFormat, error) {
	format, ok := services.ParseDocumentFormat(strings.ToLower(filepath.Ext(path)))
	if !ok {
		return nil, "", fmt.Errorf("unsupported file extension %q", filepath.Ext(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, format, nil
}
