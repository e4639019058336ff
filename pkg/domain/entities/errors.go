package entities

import "errors"

var (
	ErrDeploymentNotFound = errors.New("deployment not found")
	ErrProjectNotFound    = errors.New("project not found")
	ErrPipelineNotFound   = errors.New("pipeline not found")
	ErrDuplicateSlug      = errors.New("project slug already exists")
	ErrInvalidTransition  = errors.New("invalid deployment status transition")
	ErrInvalidArgument    = errors.New("invalid argument")
)
