package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/renomhq/renom/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the nomination history HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, _ := cmd.Flags().GetString("dbpath")
		listenAddr, _ := cmd.Flags().GetString("listen")

		db, err := openDB(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		srv := server.New(db, viper.GetString("server.username"), viper.GetString("server.password"))
		return srv.Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("dbpath", "", "Path to SQLite DB file (default: renom.sqlite in CWD)")
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
}
