package service

// profileUpdater acts as a "Change Set" context.
// It tracks if a save is actually needed.
type profileUpdater struct {
	dirty bool
}

// setString handles standard string fields (FullName, Bio, etc.)
func (u *profileUpdater) setString(newVal *string, targetField *string) {
	if newVal == nil || *newVal == *targetField {
		return
	}

	*targetField = *newVal
	u.dirty = true
}
