package essentialfeed

import "fmt"

type ValidationError struct {
	Reason string
}

func (ve ValidationError) Error() string {
	return fmt.Sprintf("creation of feed loader failed for reason : %s ", ve.Reason)
}
