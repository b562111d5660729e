package pipeline

// ForwardSource indicates where a forwarded operand should come from.
type ForwardSource int

const (
	// ForwardNone means no forwarding needed - use the register file value.
	ForwardNone ForwardSource = iota
	// ForwardFromEXMEM means forward from the EX/MEM pipeline register.
	ForwardFromEXMEM
	// ForwardFromMEMWB means forward from the MEM/WB pipeline register.
	ForwardFromMEMWB
)

// HazardUnit selects forwarding sources and detects load-use hazards. All
// methods are pure functions of the start-of-cycle latch snapshot, which
// keeps them valid under either stage-scheduling strategy.
type HazardUnit struct{}

// NewHazardUnit creates a new hazard detection unit.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// DetectForward selects the forwarding source for one source register.
// EX/MEM takes priority over MEM/WB: it holds the younger writer. Register 0
// is never forwarded.
func (h *HazardUnit) DetectForward(reg uint32, exmem *EXMEMRegister, memwb *MEMWBRegister) ForwardSource {
	if reg == 0 {
		return ForwardNone
	}
	if exmem.Valid && exmem.RegWrite && exmem.WriteReg == reg {
		return ForwardFromEXMEM
	}
	if memwb.Valid && memwb.RegWrite && memwb.WriteReg == reg {
		return ForwardFromMEMWB
	}
	return ForwardNone
}

// ForwardedValue returns the operand to use given a forwarding decision.
func (h *HazardUnit) ForwardedValue(
	forward ForwardSource,
	originalValue uint32,
	exmem *EXMEMRegister,
	memwb *MEMWBRegister,
) uint32 {
	switch forward {
	case ForwardFromEXMEM:
		return exmem.ALUResult
	case ForwardFromMEMWB:
		if memwb.MemToReg {
			return memwb.MemReadData
		}
		return memwb.ALUResult
	default:
		return originalValue
	}
}

// DetectLoadUse reports whether the instruction about to decode depends on a
// load still in ID/EX. A load's destination is its rt field; the loaded value
// is not available until after MEM, so the dependent instruction must wait
// one cycle for MEM/WB forwarding to reach it.
func (h *HazardUnit) DetectLoadUse(idex *IDEXRegister, nextRs, nextRt uint32) bool {
	if !idex.Valid || !idex.Ctrl.MemRead {
		return false
	}
	if idex.Rt == 0 {
		return false
	}
	return idex.Rt == nextRs || idex.Rt == nextRt
}
