package configloader

import "github.com/yaklabco/cssbeautify/pkg/config"

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Pointer fields: override wins when non-nil, so a file can turn a
//     default off
//   - Strings and ints: override wins when non-zero
//   - CLI switches: override wins when true
//   - Slices: override replaces base entirely if override is non-nil
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override.Clone()
	}
	if override == nil {
		return base.Clone()
	}

	result := base.Clone()
	override = override.Clone()

	mergeFormat(&result.Format, override.Format)

	if override.Extensions != nil {
		result.Extensions = override.Extensions
	}
	if override.Ignore != nil {
		result.Ignore = override.Ignore
	}

	if override.Backups.Enabled != nil {
		result.Backups.Enabled = override.Backups.Enabled
	}
	if override.Backups.Suffix != "" {
		result.Backups.Suffix = override.Backups.Suffix
	}
	if override.Verify != nil {
		result.Verify = override.Verify
	}

	if override.Write {
		result.Write = true
	}
	if override.Check {
		result.Check = true
	}
	if override.Diff {
		result.Diff = true
	}
	if override.Output != "" {
		result.Output = override.Output
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.NoBackups {
		result.NoBackups = true
	}
	if override.NoVerify {
		result.NoVerify = true
	}

	return result
}

func mergeFormat(dst *config.FormatConfig, src config.FormatConfig) {
	pick(&dst.Indent, src.Indent)
	pick(&dst.AfterSelector, src.AfterSelector)
	pick(&dst.AfterSelectorComma, src.AfterSelectorComma)
	pick(&dst.AfterDeclaration, src.AfterDeclaration)
	pick(&dst.AfterRule, src.AfterRule)
	pick(&dst.AfterComment, src.AfterComment)
	pick(&dst.AfterValueComma, src.AfterValueComma)
	pick(&dst.Combinator, src.Combinator)
	pick(&dst.ParenPadding, src.ParenPadding)
	pick(&dst.Quote, src.Quote)
	pick(&dst.ShortenHex, src.ShortenHex)
	pick(&dst.LowercaseHex, src.LowercaseHex)
	pick(&dst.RemoveLeadingZero, src.RemoveLeadingZero)
	pick(&dst.RemoveZeroUnits, src.RemoveZeroUnits)
	pick(&dst.AddLastSemicolon, src.AddLastSemicolon)
}

func pick[T any](dst **T, src *T) {
	if src != nil {
		*dst = src
	}
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
