package pin

// Mode is what the keypad is currently collecting a PIN for.
type Mode int

const (
	Unlock Mode = iota
	Create
	Confirm
	Remove
	ChangeOld
	ChangeNew
	ChangeConfirm
)

var modeNames = map[Mode]string{
	Unlock:        "unlock",
	Create:        "create",
	Confirm:       "confirm",
	Remove:        "remove",
	ChangeOld:     "change_old",
	ChangeNew:     "change_new",
	ChangeConfirm: "change_confirm",
}

var modeTitles = map[Mode]string{
	Unlock:        "Enter PIN",
	Create:        "Create PIN",
	Confirm:       "Confirm PIN",
	Remove:        "Enter PIN to Disable",
	ChangeOld:     "Enter Current PIN",
	ChangeNew:     "Enter New PIN",
	ChangeConfirm: "Confirm New PIN",
}

func (m Mode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return "unknown"
}

func (m Mode) Title() string {
	return modeTitles[m]
}

// ParseMode maps a mode name back to its Mode.
func ParseMode(s string) (Mode, bool) {
	for m, name := range modeNames {
		if name == s {
			return m, true
		}
	}
	return 0, false
}

// transition is where a completed 4-digit entry leads. Retry is used when a
// confirmation does not match the pending PIN; a failed verification keeps
// the current mode.
type transition struct {
	ok    Mode
	retry Mode
}

var transitions = map[Mode]transition{
	Unlock:        {ok: Unlock, retry: Unlock},
	Create:        {ok: Confirm, retry: Create},
	Confirm:       {ok: Unlock, retry: Create},
	Remove:        {ok: Create, retry: Remove},
	ChangeOld:     {ok: ChangeNew, retry: ChangeOld},
	ChangeNew:     {ok: ChangeConfirm, retry: ChangeNew},
	ChangeConfirm: {ok: Unlock, retry: ChangeNew},
}
