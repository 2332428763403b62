// Package dialect describes which constructs each compilation mode accepts.
//
// The table is consulted by the validator; Evidence and Classifier look at a
// whole file and tell which mode would accept everything it uses, which the
// validator turns into a remediation hint.
package dialect
