// Package completion builds grounded prompts and streams model answers
// back as fragment sequences.
//
// Backend failures never surface as errors to the consumer. They are
// classified by message: usage-limit failures degrade the session and
// substitute a friendly notice, anything else fails the session and
// surfaces the error text as the final fragment.
package completion
