package web

import "github.com/srirampandi55/Cloudify/internal/domain"

type Repos struct {
	Users   domain.UsersRepo
	Files   domain.FilesRepo
	Folders domain.FoldersRepo
}

type AuthDeps struct {
	Hasher    domain.PasswordHasher
	Tokens    domain.TokenManager
	Blacklist domain.TokenBlacklist
}
