package cli

import (
	"college_chatbot_backend/internal/service"
	"fmt"

	"github.com/spf13/cobra"
)

var checkEnvCmd = &cobra.Command{
	Use:   "check-env",
	Short: "Report which AI providers the current configuration enables",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// the database is not opened, so only the env override counts here
		allowed, set := cfg.AI.ExternalOverride()
		if !set {
			allowed = true
		}
		ai := service.NewAIService(cfg.AI, envPolicy{allowed: allowed})
		st := ai.Status()

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "config file:        %s\n", orDefault(cfg.File, "(defaults only)"))
		fmt.Fprintf(w, "gemini key present: %t\n", st.GeminiKeyPresent)
		fmt.Fprintf(w, "gemini ready:       %t\n", st.GeminiReady)
		fmt.Fprintf(w, "openai key present: %t\n", st.OpenAIPresent)
		fmt.Fprintf(w, "provider available: %t\n", st.ProviderAvailable)
		fmt.Fprintf(w, "external allowed:   %t\n", st.ExternalAllowed)
		return nil
	},
}

type envPolicy struct{ allowed bool }

func (p envPolicy) ExternalAllowed() bool { return p.allowed }

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
