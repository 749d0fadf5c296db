package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shouni/go-magazine-kit/pkg/director"
)

var layoutImages int

// layoutCmd は、画像枚数から選ばれるレイアウトを表示するだけなのだ。
var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "画像の枚数に対するレイアウト判定を表示しますなのだ。",
	RunE: func(cmd *cobra.Command, args []string) error {
		if layoutImages < 0 {
			return fmt.Errorf("--images は 0 以上で指定してほしいのだ")
		}
		d := director.SelectLayout(layoutImages)
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", d.Label, d.Reason)
		return nil
	},
}

func init() {
	layoutCmd.Flags().IntVarP(&layoutImages, "images", "n", 0, "画像の枚数なのだ。")
}
