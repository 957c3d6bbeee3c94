package resume

import (
	"github.com/okian/alumnet/internal/domain/lexicon"
	"github.com/okian/alumnet/internal/domain/model"
)

// Merge folds an extraction into u. Skills are unioned; a list section is
// replaced only when the extraction found at least one entry for it.
func Merge(u *model.User, ex Extraction) {
	u.Skills = lexicon.UnionFold(u.Skills, ex.Skills)
	if len(ex.Projects) > 0 {
		u.Projects = ex.Projects
	}
	if len(ex.Internships) > 0 {
		u.Internships = ex.Internships
	}
	if len(ex.Certifications) > 0 {
		u.Certifications = ex.Certifications
	}
}
