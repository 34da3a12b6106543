package mocks

//go:generate mockery --name Repository --srcpkg github.com/aevon-lab/calendar-engine/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
