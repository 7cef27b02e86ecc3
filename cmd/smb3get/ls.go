package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/smb3go/smb3"
)

func newLsCmd() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List a directory on the share",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			client, conn, err := dial(cfg)
			if err != nil {
				return err
			}
			defer conn.Close()

			fid, err := client.LookUp(path)
			if err != nil {
				return fmt.Errorf("open %q: %w", path, err)
			}
			defer client.Close(fid)

			entries, err := client.QueryDirectory(fid)
			if err != nil {
				return fmt.Errorf("list %q: %w", path, err)
			}

			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"Name", "Size", "Attributes"})
			table.SetAutoWrapText(false)
			table.SetBorder(false)
			for _, e := range entries {
				table.Append([]string{e.Name, fmt.Sprintf("%d", e.EndOfFile), fmt.Sprintf("0x%08X", e.FileAttributes)})
			}
			table.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "path", "", "directory to list, relative to the share root")
	return cmd
}
