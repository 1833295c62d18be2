// Package model defines the data structures exchanged by regreport.
//
// This package contains the following main types:
//   - FittedModel: a fully estimated model, single or multi-equation
//   - Equation: one reportable equation with its optional diagnostics
//   - ReportableEquation: the unified view the report composer iterates
//   - Result: the composed report text, results table and Chow tables
//
// Optional sections are expressed as nil pointers or empty lists. Which
// sections apply to an equation is decided from these fields alone.
//
// Fitted models are decoded from YAML or JSON documents with Decode.
package model
