package migrate

import (
	"github.com/spf13/cobra"

	"github.com/flarebyte/seshat/atlas"
	"github.com/flarebyte/seshat/cmd/seshat/common"
)

var applyFlags struct {
	env             string
	configURL       string
	url             string
	dirURL          string
	allowDirty      bool
	dryRun          bool
	revisionsSchema string
	baseline        string
	txMode          string
	execOrder       string
	amount          uint64
	triggerType     string
	triggerVersion  string
	vars            []string
	varFile         string
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, project, err := common.NewClient()
		if err != nil {
			return err
		}
		vars, err := common.ParseVars(applyFlags.vars, applyFlags.varFile, project.Vars)
		if err != nil {
			return err
		}

		params := atlas.MigrateApplyParams{
			Env:             common.Optional(firstOf(applyFlags.env, project.Env)),
			ConfigURL:       common.Optional(applyFlags.configURL),
			URL:             common.Optional(applyFlags.url),
			DirURL:          common.Optional(firstOf(applyFlags.dirURL, project.DirURL)),
			AllowDirty:      applyFlags.allowDirty,
			DryRun:          applyFlags.dryRun,
			RevisionsSchema: common.Optional(applyFlags.revisionsSchema),
			BaselineVersion: common.Optional(applyFlags.baseline),
			TxMode:          common.Optional(applyFlags.txMode),
			Amount:          applyFlags.amount,
			Vars:            vars,
		}
		if applyFlags.execOrder != "" {
			order, err := atlas.ParseExecOrder(applyFlags.execOrder)
			if err != nil {
				return err
			}
			params.ExecOrder = order
		}
		if applyFlags.triggerType != "" {
			trigger, err := atlas.ParseTriggerType(applyFlags.triggerType)
			if err != nil {
				return err
			}
			params.Context = &atlas.DeployRunContext{
				TriggerType:    trigger,
				TriggerVersion: applyFlags.triggerVersion,
			}
		}

		results, err := client.MigrateApplySlice(cmd.Context(), params)
		if err != nil {
			return err
		}
		if common.MachineOutput() {
			return common.Render(results)
		}
		renderApplied(results)
		return nil
	},
}

func init() {
	f := applyCmd.Flags()
	f.StringVar(&applyFlags.env, "env", "", "atlas environment name")
	f.StringVar(&applyFlags.configURL, "config", "", "atlas config URL")
	f.StringVar(&applyFlags.url, "url", "", "target database URL")
	f.StringVar(&applyFlags.dirURL, "dir", "", "migration directory URL")
	f.BoolVar(&applyFlags.allowDirty, "allow-dirty", false, "allow a non-clean target schema")
	f.BoolVar(&applyFlags.dryRun, "dry-run", false, "plan without executing")
	f.StringVar(&applyFlags.revisionsSchema, "revisions-schema", "", "schema holding the revisions table")
	f.StringVar(&applyFlags.baseline, "baseline", "", "baseline version for existing databases")
	f.StringVar(&applyFlags.txMode, "tx-mode", "", "transaction mode")
	f.StringVar(&applyFlags.execOrder, "exec-order", "", "execution order: linear, linear-skip or non-linear")
	f.Uint64Var(&applyFlags.amount, "amount", 0, "number of migrations to apply (0 = all)")
	f.StringVar(&applyFlags.triggerType, "trigger-type", "", "deploy trigger type for audit")
	f.StringVar(&applyFlags.triggerVersion, "trigger-version", "", "deploy trigger version for audit")
	f.StringArrayVar(&applyFlags.vars, "var", nil, "template var as key=value (repeatable)")
	f.StringVar(&applyFlags.varFile, "var-file", "", "YAML file of template vars")
}
