package cmd

import (
	"encoding/json"

	"lendpool/pkg/compound"
	"lendpool/store/vault"

	"github.com/spf13/cobra"
	"github.com/yiplee/structs"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "manage vaults",
}

var vaultSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "create the vaults of the config file missing from the database",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		e, err := provideEngine(ctx, database)
		if err != nil {
			cmd.PrintErrln("restore pool error:", err)
			return
		}

		if err := e.setupVaults(ctx); err != nil {
			cmd.PrintErrln("setup vaults error:", err)
			return
		}

		cmd.Println("vaults:", len(e.pool.Vaults(ctx)))
	},
}

var vaultListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "list persisted vaults with their current rates",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		database := provideDatabase()
		defer database.Close()

		vaults, err := vault.New(database).List(ctx)
		if err != nil {
			cmd.PrintErrln("list vaults error:", err)
			return
		}

		for _, v := range vaults {
			utilization, err := compound.UtilizationRate(v)
			if err != nil {
				cmd.PrintErrln(v.Token, err)
				continue
			}

			row := structs.Map(v)
			row["utilization"] = utilization
			data, _ := json.Marshal(row)
			cmd.Println(string(data))
		}
	},
}

func init() {
	vaultCmd.AddCommand(vaultSetupCmd)
	vaultCmd.AddCommand(vaultListCmd)
	rootCmd.AddCommand(vaultCmd)
}
