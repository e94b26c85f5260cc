package InputParameters

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/fdweno/types"
)

// ErrConfiguration marks inputs that are rejected before any stepping starts
var ErrConfiguration = errors.New("invalid configuration")

// Parameters obtained from the YAML input file
type InputParameters2D struct {
	Title            string            `json:"Title"`
	FinalTime        float64           `json:"FinalTime"`
	DT               float64           `json:"DT"`  // Fixed time step, exclusive with CFL
	CFL              float64           `json:"CFL"` // Time step from the stability limit, exclusive with DT
	SnapshotInterval int               `json:"SnapshotInterval"`
	MaxSteps         int               `json:"MaxSteps"`
	NX               int               `json:"NX"`
	NY               int               `json:"NY"`
	XMin             float64           `json:"XMin"`
	XMax             float64           `json:"XMax"`
	YMin             float64           `json:"YMin"`
	YMax             float64           `json:"YMax"`
	Gamma            float64           `json:"Gamma"`
	InitType         string            `json:"InitType"`
	Minf             float64           `json:"Minf"`
	Alpha            float64           `json:"Alpha"`
	Integrator       string            `json:"Integrator"`
	Stages           int               `json:"Stages"`
	Procs            int               `json:"Procs"`
	BCs              map[string]string `json:"BCs"` // Side name to boundary kind
}

// NewInputParameters2D returns the parameters of the default run, an isentropic
// vortex on a periodic 50x50 grid
func NewInputParameters2D() (ip *InputParameters2D) {
	ip = &InputParameters2D{}
	ip.SetDefaults()
	return
}

// SetDefaults fills every unset field with its default value. DT and CFL are
// left alone, one of them has to be chosen explicitly.
func (ip *InputParameters2D) SetDefaults() {
	if len(ip.Title) == 0 {
		ip.Title = "Euler 2D"
	}
	if ip.FinalTime == 0 {
		ip.FinalTime = 10
	}
	if ip.SnapshotInterval == 0 {
		ip.SnapshotInterval = 100
	}
	if ip.MaxSteps == 0 {
		ip.MaxSteps = 1000000
	}
	if ip.NX == 0 {
		ip.NX = 50
	}
	if ip.NY == 0 {
		ip.NY = 50
	}
	if ip.XMin == 0 && ip.XMax == 0 {
		ip.XMin, ip.XMax = -5, 5
	}
	if ip.YMin == 0 && ip.YMax == 0 {
		ip.YMin, ip.YMax = -5, 5
	}
	if ip.Gamma == 0 {
		ip.Gamma = 1.4
	}
	if len(ip.InitType) == 0 {
		ip.InitType = "IVortex"
	}
	if len(ip.Integrator) == 0 {
		ip.Integrator = "rk3"
	}
	if ip.Stages == 0 {
		ip.Stages = 5
	}
	if ip.Procs == 0 {
		ip.Procs = 1
	}
	if ip.BCs == nil {
		ip.BCs = make(map[string]string)
	}
	for _, s := range types.Sides {
		key := strings.ToLower(s.String())
		if _, ok := ip.BCs[key]; !ok {
			ip.BCs[key] = "periodic"
		}
	}
}

func (ip *InputParameters2D) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, ip); err != nil {
		return
	}
	// Side names are matched without regard to case
	if len(ip.BCs) != 0 {
		bcs := make(map[string]string, len(ip.BCs))
		for k, v := range ip.BCs {
			bcs[strings.ToLower(strings.TrimSpace(k))] = v
		}
		ip.BCs = bcs
	}
	ip.SetDefaults()
	return
}

// ReadFile parses an input file on top of the defaults
func ReadFile(fileName string) (ip *InputParameters2D, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters2D{}
	if err = ip.Parse(data); err != nil {
		err = fmt.Errorf("%w: parsing %s: %v", ErrConfiguration, fileName, err)
	}
	return
}

// BCFlag returns the boundary kind configured for side s
func (ip *InputParameters2D) BCFlag(s types.Side) (bc types.BCFLAG, err error) {
	label, ok := ip.BCs[strings.ToLower(s.String())]
	if !ok {
		return types.BC_Periodic, nil
	}
	if bc, err = types.NewBCFLAG(label); err != nil {
		err = fmt.Errorf("%w: %s boundary: %v", ErrConfiguration, strings.ToLower(s.String()), err)
	}
	return
}

// Validate checks the settings that do not depend on the solver itself
func (ip *InputParameters2D) Validate() (err error) {
	var (
		errs []error
		bad  = func(format string, args ...interface{}) {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]interface{}{ErrConfiguration}, args...)...))
		}
	)
	switch {
	case ip.DT > 0 && ip.CFL > 0:
		bad("both DT=%g and CFL=%g are set, choose one", ip.DT, ip.CFL)
	case !(ip.DT > 0) && !(ip.CFL > 0):
		bad("one of DT or CFL must be positive")
	}
	if !(ip.FinalTime > 0) || math.IsInf(ip.FinalTime, 0) {
		bad("final time must be positive, have %g", ip.FinalTime)
	}
	if ip.NX <= 0 || ip.NY <= 0 {
		bad("grid dimensions must be positive, have NX=%d, NY=%d", ip.NX, ip.NY)
	}
	if !(ip.XMax > ip.XMin) || !(ip.YMax > ip.YMin) {
		bad("domain is empty: x[%g,%g] y[%g,%g]", ip.XMin, ip.XMax, ip.YMin, ip.YMax)
	}
	if !(ip.Gamma > 1) {
		bad("gamma must exceed 1, have %g", ip.Gamma)
	}
	if ip.SnapshotInterval <= 0 {
		bad("snapshot interval must be positive, have %d", ip.SnapshotInterval)
	}
	if ip.MaxSteps <= 0 {
		bad("max steps must be positive, have %d", ip.MaxSteps)
	}
	if ip.Procs <= 0 {
		bad("number of ranks must be positive, have %d", ip.Procs)
	}
	for k := range ip.BCs {
		if _, ok := types.SideNameMap[k]; !ok {
			bad("unknown boundary side %q", k)
		}
	}
	var flags [4]types.BCFLAG
	for _, s := range types.Sides {
		var e error
		if flags[s], e = ip.BCFlag(s); e != nil {
			errs = append(errs, e)
		}
	}
	if (flags[types.Left] == types.BC_Periodic) != (flags[types.Right] == types.BC_Periodic) {
		bad("left and right boundaries must both be periodic or both non-periodic, have %s and %s",
			flags[types.Left], flags[types.Right])
	}
	if (flags[types.Bottom] == types.BC_Periodic) != (flags[types.Top] == types.BC_Periodic) {
		bad("bottom and top boundaries must both be periodic or both non-periodic, have %s and %s",
			flags[types.Bottom], flags[types.Top])
	}
	return errors.Join(errs...)
}

// Periodic reports which axes wrap around
func (ip *InputParameters2D) Periodic() (px, py bool) {
	l, _ := ip.BCFlag(types.Left)
	b, _ := ip.BCFlag(types.Bottom)
	return l == types.BC_Periodic, b == types.BC_Periodic
}

func (ip *InputParameters2D) Print(w io.Writer) {
	fmt.Fprintf(w, "\"%s\"\t\t= Title\n", ip.Title)
	fmt.Fprintf(w, "%8.5f\t\t= FinalTime\n", ip.FinalTime)
	if ip.CFL > 0 {
		fmt.Fprintf(w, "%8.5f\t\t= CFL\n", ip.CFL)
	} else {
		fmt.Fprintf(w, "%8.5f\t\t= DT\n", ip.DT)
	}
	fmt.Fprintf(w, "[%d x %d]\t\t= Grid cells\n", ip.NX, ip.NY)
	fmt.Fprintf(w, "[%g,%g]x[%g,%g]\t= Domain\n", ip.XMin, ip.XMax, ip.YMin, ip.YMax)
	fmt.Fprintf(w, "[%s]\t\t= InitType\n", ip.InitType)
	fmt.Fprintf(w, "[%s]\t\t\t= Integrator\n", ip.Integrator)
	fmt.Fprintf(w, "[%d]\t\t\t= Ranks\n", ip.Procs)
	keys := make([]string, 0, len(ip.BCs))
	for k := range ip.BCs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(w, "BCs[%s] = %v\n", key, ip.BCs[key])
	}
}
