package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smb3go/smb3"
	"github.com/smb3go/smb3/internal/messages"
)

func newGetCmd() *cobra.Command {
	var remotePath, localPath string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Download a file from the share",
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

			fid, err := client.LookUp(remotePath)
			if err != nil {
				return fmt.Errorf("open %q: %w", remotePath, err)
			}
			defer client.Close(fid)

			info, err := smb3.QueryInfo(client, fid, messages.FileStandardInformationClass, messages.DecodeFileStandardInformation)
			if err != nil {
				return fmt.Errorf("stat %q: %w", remotePath, err)
			}
			fmt.Fprintf(os.Stderr, "downloading %s (%d bytes)\n", remotePath, info.EndOfFile)

			out, err := os.Create(localPath)
			if err != nil {
				return fmt.Errorf("create %q: %w", localPath, err)
			}
			defer out.Close()

			if err := client.ReadAll(fid, out); err != nil {
				return fmt.Errorf("download %q: %w", remotePath, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&remotePath, "remote", "", "file to download, relative to the share root")
	cmd.Flags().StringVar(&localPath, "local", "", "local destination path")
	return cmd
}
