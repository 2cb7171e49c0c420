/*
Copyright 2024 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package v1alpha1 holds the versioned configuration of an optimization run
// and the report it produces.
// +groupName=evolve.x-k8s.io
package v1alpha1

const (
	// GroupVersion is the apiVersion written into configs and reports.
	GroupVersion = "evolve.x-k8s.io/v1alpha1"

	OptimizationArgsKind   = "OptimizationArgs"
	OptimizationReportKind = "OptimizationReport"
)
