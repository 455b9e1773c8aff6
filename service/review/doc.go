// Package review implements the job-edit and application-view sub-flow an
// admin enters when opening a task.
//
// Job postings are located in the recruiter's posted-jobs list and turned
// into an editable form. Applications are located in the job's applicant
// list and shown read-only. Recruiter details are cached for the life of the
// Service.
package review
