package tournament

var courts = []Court{
	{ID: "C001", Type: "Outdoor Hard", TotalCapacity: 100, MaxConcurrentMatches: 2},
	{ID: "C002", Type: "Indoor Hard", TotalCapacity: 150, MaxConcurrentMatches: 1},
	{ID: "C003", Type: "Centre Court", TotalCapacity: 250, MaxConcurrentMatches: 1},
}

var stageCourts = map[Stage]string{
	StageQualifier:  "C001",
	StageRoundRobin: "C002",
	StageKnockout:   "C003",
}

var nextStage = map[Stage]Stage{
	StageQualifier:  StageRoundRobin,
	StageRoundRobin: StageKnockout,
}

var stageNames = map[Stage]string{
	StageQualifier:  "Qualifier",
	StageRoundRobin: "Round Robin",
	StageKnockout:   "Knockout",
}

// Courts returns a copy of the venue's courts in ID order.
func Courts() []Court {
	out := make([]Court, len(courts))
	copy(out, courts)
	return out
}

// CourtByID looks up a court.
func CourtByID(id string) (Court, bool) {
	for _, c := range courts {
		if c.ID == id {
			return c, true
		}
	}
	return Court{}, false
}

// CourtForStage returns the court a stage is played on.
func CourtForStage(stage Stage) (Court, error) {
	id, ok := stageCourts[stage]
	if !ok {
		return Court{}, ErrInvalidStage
	}
	court, _ := CourtByID(id)
	return court, nil
}

// NextStage returns the stage a player advances to. ok is false for the
// terminal stage.
func NextStage(stage Stage) (Stage, bool) {
	next, ok := nextStage[stage]
	return next, ok
}

// Valid reports whether s is one of the known stages.
func (s Stage) Valid() bool {
	_, ok := stageCourts[s]
	return ok
}

// Name returns the human readable stage name.
func (s Stage) Name() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return string(s)
}

// ParseStage validates a stage ID.
func ParseStage(s string) (Stage, error) {
	stage := Stage(s)
	if !stage.Valid() {
		return "", ErrInvalidStage
	}
	return stage, nil
}
