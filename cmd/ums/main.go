package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/ums/internal/app"
	"github.com/dropDatabas3/ums/internal/config"
	"github.com/dropDatabas3/ums/internal/jwt"
	"github.com/dropDatabas3/ums/internal/security/password"
)

func envOr(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func printJSON(v any) {
	b, _ := json.MarshalIndent(v, "", "  ")
	fmt.Println(string(b))
}

func main() {
	var (
		configPath = envOr("CONFIG_PATH", "configs/config.yaml")
		envFile    = ".env"
		out        = envOr("UMS_OUT", "text")
	)

	loadConfig := func() (*config.Config, error) {
		if envFile != "" {
			if _, err := os.Stat(envFile); err == nil {
				_ = godotenv.Load(envFile)
			}
		}
		return config.Load(configPath)
	}

	root := &cobra.Command{
		Use:           "ums",
		Short:         "CLI operativa de UMS",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "ruta a config.yaml (env CONFIG_PATH)")
	root.PersistentFlags().StringVar(&envFile, "env-file", envFile, "ruta a .env (se ignora si no existe)")
	root.PersistentFlags().StringVar(&out, "out", out, "Formato de salida: json|text")

	// seed-admin
	var seedEmail, seedPassword, seedName string
	var seedForce bool
	seedCmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Crear el admin inicial si no hay ninguno",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
			defer cancel()

			c, err := app.NewContainer(ctx, cfg)
			if err != nil {
				return err
			}
			defer c.Close()

			created, err := app.SeedAdmin(ctx, c.Store, password.Default, app.SeedAdminInput{
				Email:    seedEmail,
				Password: seedPassword,
				Name:     seedName,
				Force:    seedForce,
			})
			if err != nil {
				return fmt.Errorf("seed-admin fallo: %w", err)
			}
			if out == "json" {
				printJSON(map[string]any{"created": created, "email": seedEmail})
				return nil
			}
			if created {
				fmt.Printf("admin creado: %s\n", seedEmail)
				if seedPassword == app.DefaultAdminPassword {
					fmt.Println("aviso: password por defecto, cambiala antes de exponer el servicio")
				}
			} else {
				fmt.Println("ya existe un admin; nada que hacer (usar --force para crear otro)")
			}
			return nil
		},
	}
	seedCmd.Flags().StringVar(&seedEmail, "email", app.DefaultAdminEmail, "Email del admin")
	seedCmd.Flags().StringVar(&seedPassword, "password", app.DefaultAdminPassword, "Password del admin")
	seedCmd.Flags().StringVar(&seedName, "name", app.DefaultAdminName, "Nombre visible")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "Crear aunque ya exista otro admin")

	// hash-password
	hashCmd := &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Imprimir el hash argon2id de una password (sin argumento lee stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plain := ""
			if len(args) == 1 {
				plain = args[0]
			} else {
				sc := bufio.NewScanner(cmd.InOrStdin())
				if sc.Scan() {
					plain = strings.TrimRight(sc.Text(), "\r\n")
				}
				if err := sc.Err(); err != nil {
					return err
				}
			}
			h, err := password.Hash(password.Default, plain)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), h)
			return nil
		},
	}

	// inspect-token
	inspectCmd := &cobra.Command{
		Use:   "inspect-token <token>",
		Short: "Validar un access token con el secreto configurado y mostrar sus claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			iss, err := jwt.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret), cfg.AccessTTL())
			if err != nil {
				return err
			}
			cl, err := iss.Parse(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("token inválido: %w", err)
			}
			info := map[string]any{
				"id":   cl.PrincipalID,
				"role": cl.Role,
				"iss":  cl.Issuer,
			}
			if cl.IssuedAt != nil {
				info["iat"] = cl.IssuedAt.Time.UTC().Format(time.RFC3339)
			}
			if cl.ExpiresAt != nil {
				info["exp"] = cl.ExpiresAt.Time.UTC().Format(time.RFC3339)
			}
			if out == "json" {
				printJSON(info)
				return nil
			}
			fmt.Printf("id=%d role=%s iss=%s iat=%v exp=%v\n", cl.PrincipalID, cl.Role, cl.Issuer, info["iat"], info["exp"])
			return nil
		},
	}

	root.AddCommand(seedCmd, hashCmd, inspectCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
