package atlas

import "fmt"

// TriggerType identifies what kind of automation triggered a deployment.
// The set is closed; the wire values are the upper-case literals the
// atlas backend expects.
type TriggerType string

const (
	TriggerCLI          TriggerType = "CLI"
	TriggerKubernetes   TriggerType = "KUBERNETES"
	TriggerTerraform    TriggerType = "TERRAFORM"
	TriggerGithubAction TriggerType = "GITHUB_ACTION"
	TriggerCircleCIOrb  TriggerType = "CIRCLECI_ORB"
)

// ParseTriggerType validates s against the closed trigger set.
func ParseTriggerType(s string) (TriggerType, error) {
	switch t := TriggerType(s); t {
	case TriggerCLI, TriggerKubernetes, TriggerTerraform, TriggerGithubAction, TriggerCircleCIOrb:
		return t, nil
	}
	return "", fmt.Errorf("unsupported trigger type: %q", s)
}

// ExecOrder is the ordering discipline atlas uses when applying pending
// migration files. The client passes the value through verbatim.
type ExecOrder string

const (
	ExecOrderLinear     ExecOrder = "linear"
	ExecOrderLinearSkip ExecOrder = "linear-skip"
	ExecOrderNonLinear  ExecOrder = "non-linear"
)

// ParseExecOrder validates s against the closed exec-order set.
func ParseExecOrder(s string) (ExecOrder, error) {
	switch o := ExecOrder(s); o {
	case ExecOrderLinear, ExecOrderLinearSkip, ExecOrderNonLinear:
		return o, nil
	}
	return "", fmt.Errorf("unsupported exec order: %q", s)
}

// Vars are user key/value substitutions passed through to atlas config
// templating. They render as one --var k=v pair per entry, in map order.
type Vars map[string]string

// AsArgs renders the vars as command-line arguments.
func (v Vars) AsArgs() []string {
	args := make([]string, 0, 2*len(v))
	for k, val := range v {
		args = append(args, "--var", k+"="+val)
	}
	return args
}

// RunContext is caller-supplied audit metadata attached to a migrate push.
type RunContext struct {
	Repo     string `json:"repo"`
	Path     string `json:"path"`
	Branch   string `json:"branch"`
	Commit   string `json:"commit"`
	URL      string `json:"url"`
	Username string `json:"username"`
	UserID   string `json:"userID"`
	SCMType  string `json:"scmType"`
}

// DeployRunContext is the narrower context attached to apply and down runs.
type DeployRunContext struct {
	TriggerType    TriggerType `json:"trigger_type"`
	TriggerVersion string      `json:"trigger_version"`
}

// LoginParams are the parameters of Login.
type LoginParams struct {
	Token string
}

// MigratePushParams are the parameters of MigratePush.
type MigratePushParams struct {
	Name        string
	Tag         NonEmptyString
	DevURL      NonEmptyString
	DirURL      NonEmptyString
	DirFormat   NonEmptyString
	LockTimeout NonEmptyString
	Context     *RunContext
	ConfigURL   NonEmptyString
	Env         NonEmptyString
	Vars        Vars
}

// MigrateApplyParams are the parameters of MigrateApply and
// MigrateApplySlice.
type MigrateApplyParams struct {
	Env             NonEmptyString
	ConfigURL       NonEmptyString
	Context         *DeployRunContext
	URL             NonEmptyString
	DirURL          NonEmptyString
	AllowDirty      bool
	DryRun          bool
	RevisionsSchema NonEmptyString
	BaselineVersion NonEmptyString
	TxMode          NonEmptyString
	ExecOrder       ExecOrder
	Amount          uint64
	Vars            Vars
}

// MigrateDownParams are the parameters of MigrateDown and
// MigrateDownSlice.
type MigrateDownParams struct {
	Env             NonEmptyString
	ConfigURL       NonEmptyString
	DevURL          NonEmptyString
	Context         *DeployRunContext
	URL             NonEmptyString
	DirURL          NonEmptyString
	RevisionsSchema NonEmptyString
	Amount          uint64
	ToVersion       NonEmptyString
	ToTag           NonEmptyString
	Vars            Vars
}

// MigrateStatusParams are the parameters of MigrateStatus.
type MigrateStatusParams struct {
	Env             NonEmptyString
	ConfigURL       NonEmptyString
	DirURL          NonEmptyString
	URL             NonEmptyString
	RevisionsSchema NonEmptyString
	Vars            Vars
}

// MigrateLintParams are the parameters of MigrateLint.
type MigrateLintParams struct {
	Env       NonEmptyString
	ConfigURL NonEmptyString
	DevURL    NonEmptyString
	DirURL    NonEmptyString
	Base      NonEmptyString
	Latest    uint64
	Context   *RunContext
	Web       bool
	Vars      Vars
}

// SchemaApplyParams are the parameters of SchemaApply and
// SchemaApplySlice.
type SchemaApplyParams struct {
	Env       NonEmptyString
	ConfigURL NonEmptyString
	DevURL    NonEmptyString
	DryRun    bool
	TxMode    NonEmptyString
	Exclude   []NonEmptyString
	Schema    []NonEmptyString
	To        NonEmptyString
	URL       NonEmptyString
	Vars      Vars
}

// SchemaInspectParams are the parameters of SchemaInspect.
type SchemaInspectParams struct {
	Env       NonEmptyString
	ConfigURL NonEmptyString
	DevURL    NonEmptyString
	Exclude   []NonEmptyString
	Format    NonEmptyString
	Schema    []NonEmptyString
	URL       NonEmptyString
}
