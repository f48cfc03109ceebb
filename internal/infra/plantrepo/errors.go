package plantrepo

import "errors"

var errDuplicateID = errors.New("plant id already exists")
